package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

// RedisDenylist records revoked token ids until the token would have expired anyway.
type RedisDenylist struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, now: time.Now}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
