package ports

import (
	"context"
	"time"

	"github.com/logintest/accounts-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations return domain.ErrUserNotFound for unknown or malformed ids
// and domain.ErrUserExists when an email collides with another account.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the user. Missing ids are not an error.
	Delete(ctx context.Context, id string) error

	// SetRecoveryCode atomically replaces the pending recovery code of the
	// user with the given email.
	SetRecoveryCode(ctx context.Context, email string, code domain.RecoveryCode) error

	// CompleteRecovery replaces the password hash, clears the pending code and
	// bumps the credential version, but only while the stored code still
	// equals code. It returns the new credential version, or
	// domain.ErrRecoveryCodeMismatch when the code no longer matches.
	CompleteRecovery(ctx context.Context, id, code, passwordHash string, now time.Time) (int64, error)
}
