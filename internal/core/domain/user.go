package domain

import "time"

// BirthDateLayout is the wire format for User.BirthDate.
const BirthDateLayout = "2006-01-02"

// RecoveryCode is a pending password-recovery code. ExpiresAt is zero when
// codes are configured not to expire.
type RecoveryCode struct {
	Code      string    `bson:"code"`
	IssuedAt  time.Time `bson:"issued_at"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// Expired reports whether the code is past its expiry at now.
func (rc *RecoveryCode) Expired(now time.Time) bool {
	if rc == nil || rc.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(rc.ExpiresAt)
}

// User is the single account entity. Secrets never leave the process through
// its JSON encoding.
type User struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	BirthDate         time.Time     `json:"-"`
	Role              string        `json:"role"`
	AccessList        []string      `json:"accessList"`
	PasswordHash      string        `json:"-"`
	Recovery          *RecoveryCode `json:"-"`
	CredentialVersion int64         `json:"-"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// UserPatch carries the profile fields a caller may change. Nil means
// "leave as is".
type UserPatch struct {
	Name       *string
	Email      *string
	Phone      *string
	BirthDate  *time.Time
	Role       *string
	AccessList *[]string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.BirthDate == nil && p.Role == nil && p.AccessList == nil
}
