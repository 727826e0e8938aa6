package models

import (
	"time"

	"gorm.io/datatypes"
)

// TicketTransitionModel is one append-only row of a ticket's history
// (spec.md §4.6). The migrations install a trigger that rejects UPDATE and
// DELETE against this table — the insert-only contract holds even against
// a direct SQL client, not just this repository.
type TicketTransitionModel struct {
	ID         uint      `gorm:"primarykey"`
	TicketID   uint      `gorm:"not null;index"`
	ActorID    *uint     `gorm:"index"`
	Action     string    `gorm:"size:30;not null"`
	FromStatus string    `gorm:"size:20;not null"`
	ToStatus   string    `gorm:"size:20;not null"`
	Note       string    `gorm:"size:1000"`
	Metadata   datatypes.JSONMap
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (TicketTransitionModel) TableName() string { return "ticket_transitions" }

// WorkSessionTransitionModel is one append-only row of a work session's
// history (spec.md §4.6), under the same insert-only trigger.
type WorkSessionTransitionModel struct {
	ID         uint   `gorm:"primarykey"`
	SessionID  uint   `gorm:"not null;index"`
	TicketID   uint   `gorm:"not null;index"`
	ActorID    *uint  `gorm:"index"`
	Action     string `gorm:"size:20;not null"`
	FromStatus string `gorm:"size:10;not null"`
	ToStatus   string `gorm:"size:10;not null"`
	EventAt    time.Time `gorm:"not null;index"`
	Metadata   datatypes.JSONMap
}

func (WorkSessionTransitionModel) TableName() string { return "work_session_transitions" }
