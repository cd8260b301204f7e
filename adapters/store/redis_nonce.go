package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasar-labs/pasar/core"
)

// RedisNonceGuard is a Redis implementation of the NonceGuard interface.
// Consumed nonces live under a common prefix and expire on their own after
// the TTL, so no server-side nonce state outlives the sign-in window.
type RedisNonceGuard struct {
	client *redis.Client
	prefix string
}

func NewRedisNonceGuard(client *redis.Client) *RedisNonceGuard {
	return &RedisNonceGuard{
		client: client,
		prefix: "pasar:nonce:",
	}
}

func (g *RedisNonceGuard) Consume(ctx context.Context, nonce string, ttl time.Duration) error {
	key := g.prefix + nonce

	set, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to consume nonce: %w", err)
	}
	if !set {
		return core.ErrInvalidNonce
	}
	return nil
}
