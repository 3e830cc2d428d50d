package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
	"github.com/logintest/accounts-api/internal/core/service"
	"github.com/logintest/accounts-api/internal/pkg/metrics"
)

// UserIDKey is the echo.Context key holding the authenticated user id.
const UserIDKey = "user_id"

// Auth validates the bearer token and injects the caller's user id into the
// context. When checker is non-nil, tokens minted before the user's last
// password change are rejected.
func Auth(verifier ports.TokenVerifier, checker ports.CredentialVersionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				reject("missing")
				return domain.ErrMissingToken
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				reject("malformed_header")
				return domain.ErrMissingToken
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if service.IsExpired(err) {
					reject("expired")
				} else {
					reject("invalid")
				}
				return err
			}

			if checker != nil {
				current, exists, err := checker.CurrentVersion(c.Request().Context(), claims.UserID)
				if err != nil {
					return fmt.Errorf("auth: %w", err)
				}
				// A deleted account passes so the handler can answer 404.
				if exists && current != claims.Version {
					reject("stale")
					return fmt.Errorf("%w: credentials changed", domain.ErrInvalidToken)
				}
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

func reject(reason string) {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
}
