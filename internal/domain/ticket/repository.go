package ticket

import "context"

// ListFilter narrows GET /tickets (spec.md §6).
type ListFilter struct {
	Status     *Status
	ItemID     *uint
	MasterID   *uint
	Technician *uint
	Query      string
	Page       int
	PerPage    int
}

type Repository interface {
	// Create persists a new ticket with its parts.
	Create(ctx context.Context, t *Ticket) error
	// Update persists mutations to an existing ticket (status, stamps,
	// metrics); it never touches Parts, which are immutable after creation.
	Update(ctx context.Context, t *Ticket) error
	// FindByIDForUpdate loads a ticket locked for update, used by every
	// transition to satisfy spec.md §4.4's "locks the ticket row for update".
	FindByIDForUpdate(ctx context.Context, id uint) (*Ticket, error)
	FindByID(ctx context.Context, id uint) (*Ticket, error)
	// HasActiveTicketForItem reports whether itemID already has a ticket
	// whose status is not done and which is not soft-deleted.
	HasActiveTicketForItem(ctx context.Context, itemID uint) (bool, error)
	List(ctx context.Context, f ListFilter) ([]*Ticket, int64, error)
}
