package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// RateLimitBackend is a fixed-window counter, grounded on the teacher's
// Redis INCR rate limiter — repairbay adds an in-process fallback for the
// single-instance deployment spec.md §5 allows when Redis is disabled.
type RateLimitBackend interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateLimiter struct {
	backend RateLimitBackend
	limit   int64
	window  time.Duration
	log     logger.Interface
}

func NewRateLimiter(backend RateLimitBackend, limit int64, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{backend: backend, limit: limit, window: window, log: log}
}

// Limit keys the window on client IP, matching the teacher's
// "ratelimit:ip:%s:%d" convention.
func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		windowBucket := time.Now().Unix() / int64(r.window.Seconds())
		key := fmt.Sprintf("ratelimit:ip:%s:%d", c.ClientIP(), windowBucket)

		count, err := r.backend.Incr(c.Request.Context(), key, r.window)
		if err != nil {
			r.log.Warnw("rate limiter backend unavailable, failing open", "error", err)
			c.Next()
			return
		}
		if count > r.limit {
			httpresponse.Fail(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedisRateLimitBackend is the multi-instance backend (spec.md §5).
type RedisRateLimitBackend struct {
	client *redis.Client
}

func NewRedisRateLimitBackend(client *redis.Client) *RedisRateLimitBackend {
	return &RedisRateLimitBackend{client: client}
}

func (b *RedisRateLimitBackend) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := b.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr failed: %w", err)
	}
	if count == 1 {
		b.client.Expire(ctx, key, window)
	}
	return count, nil
}

// InProcessRateLimitBackend is the single-instance fallback: a mutex-guarded
// map of fixed-window counters, pruned lazily on access.
type InProcessRateLimitBackend struct {
	mu      sync.Mutex
	buckets map[string]int64
}

func NewInProcessRateLimitBackend() *InProcessRateLimitBackend {
	return &InProcessRateLimitBackend{buckets: make(map[string]int64)}
}

func (b *InProcessRateLimitBackend) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buckets) > 100000 {
		b.buckets = make(map[string]int64)
	}
	b.buckets[key]++
	return b.buckets[key], nil
}
