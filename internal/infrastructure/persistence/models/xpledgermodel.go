package models

import "time"

// XPLedgerEntryModel is one append-only XP ledger row (spec.md §4.7). The
// partial unique index on (user_id, source, reference_type, reference_id)
// where reference_id is not null backs Entry.IdempotencyKey (see
// migrations).
type XPLedgerEntryModel struct {
	ID            uint      `gorm:"primarykey"`
	SID           string    `gorm:"uniqueIndex;not null;size:50"`
	UserID        uint      `gorm:"not null;index"`
	Source        string    `gorm:"size:40;not null"`
	ReferenceType string    `gorm:"size:30;not null"`
	ReferenceID   string    `gorm:"size:100"`
	Amount        int       `gorm:"not null"`
	ReasonLabel   string    `gorm:"size:100;not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

func (XPLedgerEntryModel) TableName() string { return "xp_ledger_entries" }
