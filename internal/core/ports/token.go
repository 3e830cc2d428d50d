package ports

import "github.com/logintest/accounts-api/internal/core/domain"

// TokenVerifier validates a bearer token and returns the identity it carries.
// Any failure (signature, expiry, shape) is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.TokenClaims, error)
}
