package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrMissingToken       = errors.New("access denied")
	ErrInvalidToken       = errors.New("invalid token")

	ErrRecoveryCodeMismatch = errors.New("incorrect recovery code")
	ErrRecoveryCodeExpired  = errors.New("recovery code expired")
	ErrMailDelivery         = errors.New("failed to send email")
)
