package audit

import "context"

// TicketTransitionRepository is strictly insert-and-read: there is no
// Update or Delete method, and implementations must reject any attempt to
// issue one at the storage layer (spec.md §4.6, §8 property 2).
type TicketTransitionRepository interface {
	Append(ctx context.Context, t *TicketTransition) error
	ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*TicketTransition, int64, error)
	// EverReworked reports whether the ticket's history contains a
	// qc_fail action — the basis for the first-pass XP bonus (spec.md
	// §4.7's "first attempt" rule, resolved via history rather than a
	// denormalized flag per spec.md §9's open question).
	EverReworked(ctx context.Context, ticketID uint) (bool, error)
}

type WorkSessionTransitionRepository interface {
	Append(ctx context.Context, t *WorkSessionTransition) error
	ListBySession(ctx context.Context, sessionID uint, page, perPage int) ([]*WorkSessionTransition, int64, error)
	ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*WorkSessionTransition, int64, error)
}
