// Package cache holds the two telegramverify.ReplayGuard backends spec.md
// §5 allows: an in-process LRU with TTL for a single instance, and Redis
// SETNX for a multi-instance deployment.
package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruEntry struct {
	expiresAt time.Time
}

// LRUReplayGuard implements telegramverify.ReplayGuard with an in-process,
// size-bounded LRU cache — adequate for a single bot instance (spec.md §5).
type LRUReplayGuard struct {
	mu    sync.Mutex
	cache *lru.Cache[string, lruEntry]
}

func NewLRUReplayGuard(size int) (*LRUReplayGuard, error) {
	if size <= 0 {
		size = 10000
	}
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUReplayGuard{cache: c}, nil
}

func (g *LRUReplayGuard) CheckAndRemember(_ context.Context, hash string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if entry, ok := g.cache.Get(hash); ok && now.Before(entry.expiresAt) {
		return false, nil
	}
	g.cache.Add(hash, lruEntry{expiresAt: now.Add(ttl)})
	return true, nil
}
