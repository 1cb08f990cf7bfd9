package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RotationGuard makes refresh tokens single-use: the first rotation of a
// token claims it, every replay afterward is refused. Keys expire with the
// token itself so the set never grows unbounded.
// Key format: refresh_used:<sha256(token)>
type RotationGuard struct {
	client *redis.Client
}

// NewRotationGuard creates a RotationGuard wrapping the given Redis client.
func NewRotationGuard(client *redis.Client) *RotationGuard {
	return &RotationGuard{client: client}
}

// Consume claims the token for ttl. It reports false when the token was
// already claimed by an earlier rotation.
func (g *RotationGuard) Consume(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := g.client.SetNX(ctx, g.key(token), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("rotation guard: %w", err)
	}
	return ok, nil
}

// key hashes the token so raw credentials never land in Redis.
func (g *RotationGuard) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "refresh_used:" + hex.EncodeToString(sum[:])
}
