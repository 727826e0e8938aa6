package models

import "time"

// WorkSessionModel is a per-ticket, per-technician work timer (spec.md
// §4.5). Partial unique indexes on (ticket_id) and (technician_id) filtered
// to status <> 'STOPPED' enforce "at most one non-stopped session" at the
// storage layer (see migrations).
type WorkSessionModel struct {
	ID                 uint      `gorm:"primarykey"`
	SID                string    `gorm:"uniqueIndex;not null;size:50"`
	TicketID           uint      `gorm:"not null;index"`
	TechnicianID       uint      `gorm:"not null;index"`
	Status             string    `gorm:"size:10;not null;index"`
	StartedAt          time.Time `gorm:"not null"`
	LastStartedAt      time.Time `gorm:"not null"`
	AccumulatedSeconds int64     `gorm:"not null;default:0"`
	StoppedAt          *time.Time
}

func (WorkSessionModel) TableName() string { return "work_sessions" }
