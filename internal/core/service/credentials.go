package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
)

// CredentialVersions resolves a user's current credential version, reading
// through the cache and falling back to the user store.
type CredentialVersions struct {
	repo  ports.UserRepository
	cache ports.CredentialCache
	log   zerolog.Logger
}

// NewCredentialVersions returns a ports.CredentialVersionChecker. cache may be nil.
func NewCredentialVersions(repo ports.UserRepository, cache ports.CredentialCache, log zerolog.Logger) *CredentialVersions {
	return &CredentialVersions{repo: repo, cache: cache, log: log}
}

func (c *CredentialVersions) CurrentVersion(ctx context.Context, userID string) (int64, bool, error) {
	if c.cache != nil {
		version, found, err := c.cache.Get(ctx, userID)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("user_id", userID).Msg("credential cache read failed, using database")
		case found:
			return version, true, nil
		}
	}

	user, err := c.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("credential version: %w", err)
	}

	if c.cache == nil {
		return user.CredentialVersion, true, nil
	}

	stored, err := c.cache.Fill(ctx, userID, user.CredentialVersion)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache credential version")
		return user.CredentialVersion, true, nil
	}
	if stored {
		return user.CredentialVersion, true, nil
	}

	// A concurrent password change cached a newer version after our read.
	version, found, err := c.cache.Get(ctx, userID)
	if err != nil || !found || version < user.CredentialVersion {
		return user.CredentialVersion, true, nil
	}
	return version, true, nil
}
