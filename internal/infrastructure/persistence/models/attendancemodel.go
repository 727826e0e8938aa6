package models

import "time"

// CheckInModel is one daily attendance record. A unique index on
// (user_id, calendar_day) enforces the "one check-in per user per local
// calendar day" invariant (see migrations).
type CheckInModel struct {
	ID          uint      `gorm:"primarykey"`
	SID         string    `gorm:"uniqueIndex;not null;size:50"`
	UserID      uint      `gorm:"not null;index:idx_checkins_user_day,unique"`
	CheckedInAt time.Time `gorm:"not null"`
	CalendarDay time.Time `gorm:"not null;index:idx_checkins_user_day,unique"`
	OnTime      bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (CheckInModel) TableName() string { return "attendance_checkins" }
