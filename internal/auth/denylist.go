package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist keeps revoked tokens in redis until they would have expired.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}

func (d *Denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denyKey(token), true, ttl).Err()
}

// Revoked reports whether the token is in the denylist.
func (d *Denylist) Revoked(ctx context.Context, token string) (bool, error) {
	_, err := d.rdb.Get(ctx, denyKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
