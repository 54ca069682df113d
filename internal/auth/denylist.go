package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const denylistKeyPrefix = "revoked_token:"

// Denylist tracks revoked token IDs in Redis. Entries expire together with
// the token itself, so the set stays bounded.
type Denylist struct {
	Client *redis.Client
}

func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{Client: client}
}

// Revoke marks a token ID as revoked until the token would have expired
// anyway.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke
		return nil
	}
	return d.Client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked checks whether a token ID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := d.Client.Get(ctx, denylistKeyPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
