package models

// TelegramOffsetModel persists the long-poll offset for
// infrastructure/telegram.PollingService across restarts (spec.md §5's
// single-instance polling deployment). A singleton row keyed by ID=1.
type TelegramOffsetModel struct {
	ID     uint  `gorm:"primarykey"`
	Offset int64 `gorm:"not null;default:0"`
}

func (TelegramOffsetModel) TableName() string { return "telegram_offsets" }
