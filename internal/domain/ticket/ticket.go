// Package ticket implements the repair ticket lifecycle state machine —
// the Core of repairbay (spec.md §4.4): role-scoped transitions, their
// preconditions, and the cross-entity side effects they imply on the
// owning inventory item.
package ticket

import (
	"fmt"
	"sync"
	"time"
)

// Ticket is the aggregate root for one repair job against one inventory
// item. Every exported mutation method enforces the state graph in status.go
// and is safe for concurrent read access; callers serialize writes with a
// row lock at the persistence layer (spec.md §4.4's "locks the ticket row
// for update").
type Ticket struct {
	mu         sync.RWMutex
	id         uint
	sid        string
	itemID     uint
	title      string
	masterID   uint
	technicianID *uint
	approvedByID *uint
	status     Status
	flagColor  FlagColor
	xpAmount   int
	isManual   bool
	parts      []*TicketPart

	createdAt  time.Time
	assignedAt *time.Time
	startedAt  *time.Time
	finishedAt *time.Time

	totalDurationMinutes int

	updatedAt time.Time
	deletedAt *time.Time
}

// NewTicket creates a ticket under_review with at least one part (spec.md
// §3's creation invariant). The caller supplies already-validated parts.
func NewTicket(sid string, itemID uint, title string, masterID uint, parts []*TicketPart) (*Ticket, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one ticket part is required")
	}
	now := time.Now()
	return &Ticket{
		sid: sid, itemID: itemID, title: title, masterID: masterID,
		status: StatusUnderReview, flagColor: FlagGreen, parts: parts,
		createdAt: now, updatedAt: now,
	}, nil
}

func ReconstructTicket(
	id uint, sid string, itemID uint, title string, masterID uint, technicianID, approvedByID *uint,
	status Status, flagColor FlagColor, xpAmount int, isManual bool, parts []*TicketPart,
	createdAt time.Time, assignedAt, startedAt, finishedAt *time.Time, totalDurationMinutes int,
	updatedAt time.Time, deletedAt *time.Time,
) *Ticket {
	if parts == nil {
		parts = []*TicketPart{}
	}
	return &Ticket{
		id: id, sid: sid, itemID: itemID, title: title, masterID: masterID,
		technicianID: technicianID, approvedByID: approvedByID, status: status,
		flagColor: flagColor, xpAmount: xpAmount, isManual: isManual, parts: parts,
		createdAt: createdAt, assignedAt: assignedAt, startedAt: startedAt, finishedAt: finishedAt,
		totalDurationMinutes: totalDurationMinutes, updatedAt: updatedAt, deletedAt: deletedAt,
	}
}

func (t *Ticket) ID() uint           { t.mu.RLock(); defer t.mu.RUnlock(); return t.id }
func (t *Ticket) SID() string        { t.mu.RLock(); defer t.mu.RUnlock(); return t.sid }
func (t *Ticket) ItemID() uint       { t.mu.RLock(); defer t.mu.RUnlock(); return t.itemID }
func (t *Ticket) Title() string      { t.mu.RLock(); defer t.mu.RUnlock(); return t.title }
func (t *Ticket) MasterID() uint     { t.mu.RLock(); defer t.mu.RUnlock(); return t.masterID }
func (t *Ticket) Status() Status     { t.mu.RLock(); defer t.mu.RUnlock(); return t.status }
func (t *Ticket) FlagColor() FlagColor { t.mu.RLock(); defer t.mu.RUnlock(); return t.flagColor }
func (t *Ticket) XPAmount() int      { t.mu.RLock(); defer t.mu.RUnlock(); return t.xpAmount }
func (t *Ticket) IsManual() bool     { t.mu.RLock(); defer t.mu.RUnlock(); return t.isManual }
func (t *Ticket) CreatedAt() time.Time  { t.mu.RLock(); defer t.mu.RUnlock(); return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time  { t.mu.RLock(); defer t.mu.RUnlock(); return t.updatedAt }
func (t *Ticket) DeletedAt() *time.Time { t.mu.RLock(); defer t.mu.RUnlock(); return t.deletedAt }
func (t *Ticket) AssignedAt() *time.Time { t.mu.RLock(); defer t.mu.RUnlock(); return t.assignedAt }
func (t *Ticket) StartedAt() *time.Time  { t.mu.RLock(); defer t.mu.RUnlock(); return t.startedAt }
func (t *Ticket) FinishedAt() *time.Time { t.mu.RLock(); defer t.mu.RUnlock(); return t.finishedAt }
func (t *Ticket) TotalDurationMinutes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalDurationMinutes
}

func (t *Ticket) TechnicianID() *uint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.technicianID
}

func (t *Ticket) ApprovedByID() *uint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.approvedByID
}

func (t *Ticket) Parts() []*TicketPart {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*TicketPart, len(t.parts))
	copy(out, t.parts)
	return out
}

func (t *Ticket) SetID(id uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id = id
}

// IsAssignedTechnician reports whether userID is the ticket's current
// technician — the predicate behind every ticket.work.* capability.
func (t *Ticket) IsAssignedTechnician(userID uint) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.technicianID != nil && *t.technicianID == userID
}

// ReviewApprove is idempotent: an already-approved ticket short-circuits
// and returns nil without mutating state again (spec.md §4.4).
func (t *Ticket) ReviewApprove(caller uint, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.approvedByID != nil {
		return nil
	}
	if !CanFire(ActionReviewApprove, t.status) {
		return fmt.Errorf("cannot review_approve from status %s", t.status)
	}
	t.status = TargetStatus(ActionReviewApprove)
	t.approvedByID = &caller
	t.updatedAt = now
	return nil
}

// Assign sets the technician and stamps assigned_at. May be combined with
// ReviewApprove in a single service call, but each is recorded as its own
// transition by the caller (spec.md §4.4).
func (t *Ticket) Assign(technicianID uint, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !CanFire(ActionAssign, t.status) {
		return fmt.Errorf("cannot assign from status %s", t.status)
	}
	t.status = TargetStatus(ActionAssign)
	t.technicianID = &technicianID
	t.assignedAt = &now
	t.updatedAt = now
	return nil
}

// StartWork moves the ticket into in_progress. started_at is stamped only
// on first entry (rework restarts do not reset it).
func (t *Ticket) StartWork(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !CanFire(ActionStartWork, t.status) {
		return fmt.Errorf("cannot start_work from status %s", t.status)
	}
	t.status = TargetStatus(ActionStartWork)
	if t.startedAt == nil {
		t.startedAt = &now
	}
	t.updatedAt = now
	return nil
}

// ToWaitingQC requires the caller to have already verified the work session
// is STOPPED (spec.md §4.4) — that check lives in the application layer
// since Ticket has no visibility into WorkSession state.
func (t *Ticket) ToWaitingQC(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !CanFire(ActionToWaitingQC, t.status) {
		return fmt.Errorf("cannot move to waiting_qc from status %s", t.status)
	}
	t.status = TargetStatus(ActionToWaitingQC)
	t.updatedAt = now
	return nil
}

// QCPass is idempotent on a ticket already done: returns nil without
// mutating or re-stamping finished_at, so the caller can skip re-emitting
// XP (the ledger's own idempotency key is the second line of defense).
func (t *Ticket) QCPass(totalDurationMinutes int, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusDone {
		return nil
	}
	if !CanFire(ActionQCPass, t.status) {
		return fmt.Errorf("cannot qc_pass from status %s", t.status)
	}
	t.status = TargetStatus(ActionQCPass)
	t.finishedAt = &now
	t.totalDurationMinutes = totalDurationMinutes
	t.updatedAt = now
	return nil
}

func (t *Ticket) QCFail(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !CanFire(ActionQCFail, t.status) {
		return fmt.Errorf("cannot qc_fail from status %s", t.status)
	}
	t.status = TargetStatus(ActionQCFail)
	t.updatedAt = now
	return nil
}

// ManualMetrics mutates flag_color/xp_amount and flags is_manual, available
// on any ticket not yet done (spec.md §4.1/§4.4).
func (t *Ticket) ManualMetrics(flagColor FlagColor, xpAmount int, now time.Time) error {
	if !flagColor.IsValid() {
		return fmt.Errorf("invalid flag color %q", flagColor)
	}
	if xpAmount < 0 {
		return fmt.Errorf("xp amount must be >= 0")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusDone {
		return fmt.Errorf("cannot set manual metrics on a done ticket")
	}
	t.flagColor = flagColor
	t.xpAmount = xpAmount
	t.isManual = true
	t.updatedAt = now
	return nil
}

// RecomputeTotalDuration overwrites total_duration_minutes, called after
// every work-session stop (spec.md §4.5's "recomputed on each session
// stop") — independent of which lifecycle status the ticket is currently
// in.
func (t *Ticket) RecomputeTotalDuration(minutes int, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalDurationMinutes = minutes
	t.updatedAt = now
}

func (t *Ticket) SoftDelete(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deletedAt = &at
	t.updatedAt = at
}
