package xpledger

import "context"

// Repository is insert-and-read only; there is no Update/Delete (spec.md
// §4.7's immutability rule).
type Repository interface {
	// Append inserts entry, translating a unique-constraint violation on
	// the (user, source, reference_type, reference_id) key into
	// ErrDuplicateEmission so callers can treat it as the idempotent
	// no-op spec.md §4.4/§8 requires.
	Append(ctx context.Context, e *Entry) error
	ExistsForKey(ctx context.Context, userID uint, source Source, referenceType ReferenceType, referenceID string) (bool, error)
	ListByUser(ctx context.Context, userID uint, page, perPage int) ([]*Entry, int64, error)
	List(ctx context.Context, userID *uint, page, perPage int) ([]*Entry, int64, error)
	SumByUser(ctx context.Context, userID uint) (int, error)
}
