package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialCache caches each user's credential version so the access gate
// can detect tokens issued before a password change.
// Key format: credver:<user_id>
type CredentialCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCredentialCache wraps client. Entries expire after ttl, which should be
// at least the token lifetime; a miss only costs a database read.
func NewCredentialCache(client *redis.Client, ttl time.Duration) *CredentialCache {
	return &CredentialCache{client: client, ttl: ttl}
}

// Get returns the cached version, with found=false on a miss.
func (c *CredentialCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	v, err := c.client.Get(ctx, c.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("credential cache get: %w", err)
	}
	return v, true, nil
}

func (c *CredentialCache) Set(ctx context.Context, userID string, version int64) error {
	if err := c.client.Set(ctx, c.key(userID), version, c.ttl).Err(); err != nil {
		return fmt.Errorf("credential cache set: %w", err)
	}
	return nil
}

// Fill stores version only if the key is absent and reports whether it did.
func (c *CredentialCache) Fill(ctx context.Context, userID string, version int64) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.key(userID), version, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("credential cache fill: %w", err)
	}
	return ok, nil
}

func (c *CredentialCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("credential cache delete: %w", err)
	}
	return nil
}

func (c *CredentialCache) key(userID string) string {
	return "credver:" + userID
}
