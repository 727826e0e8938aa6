package models

import (
	"time"

	"gorm.io/gorm"
)

// TicketModel is the repair ticket aggregate root (spec.md §4.4).
type TicketModel struct {
	ID                   uint   `gorm:"primarykey"`
	SID                  string `gorm:"uniqueIndex;not null;size:50"`
	ItemID               uint   `gorm:"not null;index"`
	Title                string `gorm:"size:200;not null"`
	MasterID             uint   `gorm:"not null;index"`
	TechnicianID         *uint  `gorm:"index"`
	ApprovedByID         *uint
	Status               string `gorm:"size:20;not null;index"`
	FlagColor            string `gorm:"size:10;not null"`
	XPAmount             int    `gorm:"not null;default:0"`
	IsManual             bool   `gorm:"not null;default:false"`
	CreatedAt            time.Time
	AssignedAt           *time.Time
	StartedAt            *time.Time
	FinishedAt           *time.Time
	TotalDurationMinutes int `gorm:"not null;default:0"`
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (TicketModel) TableName() string { return "tickets" }

// TicketPartModel is one line item of a ticket's part specification
// (spec.md §3). Parts are immutable after ticket creation.
type TicketPartModel struct {
	ID       uint   `gorm:"primarykey"`
	TicketID uint   `gorm:"not null;index"`
	PartID   uint   `gorm:"not null"`
	Color    string `gorm:"size:10;not null"`
	Minutes  int    `gorm:"not null"`
	Comment  string `gorm:"size:500"`
}

func (TicketPartModel) TableName() string { return "ticket_parts" }
