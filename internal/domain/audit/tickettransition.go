// Package audit models the two append-only trails the system guarantees
// (spec.md §4.6): TicketTransition and WorkSessionTransition. Both are
// insert-only at every layer — there is deliberately no Update/Delete
// method on either type.
package audit

import "time"

// TicketTransition is one row of a ticket's immutable history.
type TicketTransition struct {
	id         uint
	ticketID   uint
	actorID    *uint
	action     string
	fromStatus string
	toStatus   string
	note       string
	metadata   map[string]any
	createdAt  time.Time
}

func NewTicketTransition(ticketID uint, actorID *uint, action, fromStatus, toStatus, note string, metadata map[string]any) *TicketTransition {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &TicketTransition{
		ticketID: ticketID, actorID: actorID, action: action,
		fromStatus: fromStatus, toStatus: toStatus, note: note, metadata: metadata,
		createdAt: time.Now(),
	}
}

func ReconstructTicketTransition(
	id, ticketID uint, actorID *uint, action, fromStatus, toStatus, note string,
	metadata map[string]any, createdAt time.Time,
) *TicketTransition {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &TicketTransition{
		id: id, ticketID: ticketID, actorID: actorID, action: action,
		fromStatus: fromStatus, toStatus: toStatus, note: note, metadata: metadata, createdAt: createdAt,
	}
}

func (t *TicketTransition) ID() uint               { return t.id }
func (t *TicketTransition) TicketID() uint         { return t.ticketID }
func (t *TicketTransition) ActorID() *uint         { return t.actorID }
func (t *TicketTransition) Action() string         { return t.action }
func (t *TicketTransition) FromStatus() string     { return t.fromStatus }
func (t *TicketTransition) ToStatus() string       { return t.toStatus }
func (t *TicketTransition) Note() string           { return t.note }
func (t *TicketTransition) Metadata() map[string]any { return t.metadata }
func (t *TicketTransition) CreatedAt() time.Time   { return t.createdAt }
func (t *TicketTransition) SetID(id uint)          { t.id = id }
