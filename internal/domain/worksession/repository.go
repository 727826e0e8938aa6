package worksession

import "context"

type Repository interface {
	// Create inserts a new session, relying on the partial unique indexes
	// ("one non-STOPPED session per ticket", "...per technician") to reject
	// concurrent starts — spec.md §4.5/§5. The repository surfaces that
	// constraint violation as worksession.ErrAlreadyActive.
	Create(ctx context.Context, w *WorkSession) error
	Update(ctx context.Context, w *WorkSession) error
	FindByIDForUpdate(ctx context.Context, id uint) (*WorkSession, error)
	FindByID(ctx context.Context, id uint) (*WorkSession, error)
	FindActiveByTicket(ctx context.Context, ticketID uint) (*WorkSession, error)
	FindActiveByTechnician(ctx context.Context, technicianID uint) (*WorkSession, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*WorkSession, error)
	// SumStoppedAccumulatedSeconds sums accumulated_seconds across every
	// STOPPED session for the ticket (spec.md §4.5's duration accounting).
	SumStoppedAccumulatedSeconds(ctx context.Context, ticketID uint) (int64, error)
}
