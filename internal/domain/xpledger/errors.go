package xpledger

import "errors"

// ErrDuplicateEmission signals the idempotency key already exists — the
// caller should treat this as a successful no-op, never as a failure
// (spec.md §4.4's "collides" duplicate qc_pass behavior, §8 property 4).
var ErrDuplicateEmission = errors.New("xp ledger entry already exists for this idempotency key")
