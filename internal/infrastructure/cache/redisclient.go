package cache

import (
	"github.com/redis/go-redis/v9"

	"github.com/pedalworks/repairbay/internal/shared/config"
)

// NewRedisClient opens a connection to the distributed backend spec.md §5
// names for multi-instance deployments; dial errors surface lazily on
// first command rather than here, matching go-redis's own client model.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
