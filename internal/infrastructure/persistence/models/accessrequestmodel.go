package models

import "time"

// AccessRequestModel is a Telegram-originated onboarding request (spec.md
// §4.2). A partial unique index (see migrations) enforces at most one
// PENDING row per telegram_id.
type AccessRequestModel struct {
	ID               uint   `gorm:"primarykey"`
	SID              string `gorm:"uniqueIndex;not null;size:50"`
	TelegramID       int64  `gorm:"not null;index"`
	TelegramUsername string `gorm:"size:100"`
	FirstName        string `gorm:"size:100;not null"`
	LastName         string `gorm:"size:100"`
	Phone            string `gorm:"size:20;not null"`
	Status           string `gorm:"size:20;not null;index"`
	ResolvedByUserID *uint
	ResolvedAt       *time.Time
	LinkedUserID     *uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (AccessRequestModel) TableName() string { return "access_requests" }
