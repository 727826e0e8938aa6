package audit

import "time"

type WorkSessionAction string

const (
	WorkSessionActionStarted WorkSessionAction = "started"
	WorkSessionActionPaused  WorkSessionAction = "paused"
	WorkSessionActionResumed WorkSessionAction = "resumed"
	WorkSessionActionStopped WorkSessionAction = "stopped"
)

// WorkSessionTransition is one row of a work session's immutable history.
type WorkSessionTransition struct {
	id         uint
	sessionID  uint
	ticketID   uint
	actorID    *uint
	action     WorkSessionAction
	fromStatus string
	toStatus   string
	eventAt    time.Time
	metadata   map[string]any
}

func NewWorkSessionTransition(
	sessionID, ticketID uint, actorID *uint, action WorkSessionAction, fromStatus, toStatus string,
	metadata map[string]any,
) *WorkSessionTransition {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &WorkSessionTransition{
		sessionID: sessionID, ticketID: ticketID, actorID: actorID, action: action,
		fromStatus: fromStatus, toStatus: toStatus, eventAt: time.Now(), metadata: metadata,
	}
}

func ReconstructWorkSessionTransition(
	id, sessionID, ticketID uint, actorID *uint, action WorkSessionAction, fromStatus, toStatus string,
	eventAt time.Time, metadata map[string]any,
) *WorkSessionTransition {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &WorkSessionTransition{
		id: id, sessionID: sessionID, ticketID: ticketID, actorID: actorID, action: action,
		fromStatus: fromStatus, toStatus: toStatus, eventAt: eventAt, metadata: metadata,
	}
}

func (t *WorkSessionTransition) ID() uint                    { return t.id }
func (t *WorkSessionTransition) SessionID() uint             { return t.sessionID }
func (t *WorkSessionTransition) TicketID() uint              { return t.ticketID }
func (t *WorkSessionTransition) ActorID() *uint              { return t.actorID }
func (t *WorkSessionTransition) Action() WorkSessionAction    { return t.action }
func (t *WorkSessionTransition) FromStatus() string          { return t.fromStatus }
func (t *WorkSessionTransition) ToStatus() string            { return t.toStatus }
func (t *WorkSessionTransition) EventAt() time.Time          { return t.eventAt }
func (t *WorkSessionTransition) Metadata() map[string]any    { return t.metadata }
func (t *WorkSessionTransition) SetID(id uint)               { t.id = id }
