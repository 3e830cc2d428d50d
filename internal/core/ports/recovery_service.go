package ports

import (
	"context"
	"time"
)

// CompleteRecoveryInput carries the final step of the recovery flow.
type CompleteRecoveryInput struct {
	Email        string
	Code         string
	Password     string
	Confirmation string
}

// RecoveryService drives the emailed one-time-code password recovery flow.
type RecoveryService interface {
	InitiateRecovery(ctx context.Context, email string) error
	// VerifyRecoveryCode is read-only; it returns the id of the matching user.
	VerifyRecoveryCode(ctx context.Context, email, code string) (string, error)
	CompletePasswordRecovery(ctx context.Context, in CompleteRecoveryInput) error
}

// RecoveryMailer delivers a recovery code to a user's mailbox.
type RecoveryMailer interface {
	SendRecoveryCode(ctx context.Context, to, code string, ttl time.Duration) error
}
