package telegramverify

import (
	"context"
	"time"
)

// ReplayGuard remembers a verified hash for ttl and reports whether a given
// hash has already been seen — spec.md §4.8 step 6 and §5's "in-process LRU
// with TTL (single instance) or a shared distributed cache" contract.
// Implementations: hashicorp/golang-lru/v2 (single instance) and Redis
// SETNX (multi-instance), both in internal/infrastructure/cache.
type ReplayGuard interface {
	// CheckAndRemember atomically checks whether hash has already been
	// recorded and, if not, records it with the given ttl. It returns true
	// when hash is newly recorded (not a replay), false when it was
	// already present.
	CheckAndRemember(ctx context.Context, hash string, ttl time.Duration) (bool, error)
}

// ErrReplay is returned by the verify flow when ReplayGuard reports a
// duplicate submission within replay_ttl.
type ErrReplay struct{}

func (ErrReplay) Error() string { return "initData has already been verified within the replay window" }
