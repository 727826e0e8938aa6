package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReplayGuard implements telegramverify.ReplayGuard backed by Redis
// SETNX, the multi-instance option spec.md §5 names — every bot process
// shares the same replay window regardless of which one handled the
// request.
type RedisReplayGuard struct {
	client *redis.Client
	prefix string
}

func NewRedisReplayGuard(client *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{client: client, prefix: "repairbay:tma:replay:"}
}

func (g *RedisReplayGuard) CheckAndRemember(ctx context.Context, hash string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+hash, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis replay guard failed: %w", err)
	}
	return ok, nil
}
