// Package models holds the gorm persistence structs — the anti-corruption
// layer between the domain packages and PostgreSQL, grounded on the
// teacher's internal/infrastructure/persistence/models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserModel is the identity record (spec.md §3's User). No foreign key
// constraints or associations: relationships are managed by application
// business logic.
type UserModel struct {
	ID               uint    `gorm:"primarykey"`
	SID              string  `gorm:"uniqueIndex;not null;size:50"`
	Phone            string  `gorm:"uniqueIndex;not null;size:20"`
	TelegramID       *int64  `gorm:"uniqueIndex"`
	TelegramUsername string  `gorm:"size:100"`
	PasswordHash     string  `gorm:"size:255"`
	IsActive         bool    `gorm:"not null;default:true;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

// RoleAssignmentModel is a user's role grant, gated by IsActive rather than
// deleted when revoked (spec.md §3).
type RoleAssignmentModel struct {
	ID         uint      `gorm:"primarykey"`
	UserID     uint      `gorm:"not null;index:idx_role_assignments_user_role,unique"`
	Role       string    `gorm:"size:20;not null;index:idx_role_assignments_user_role,unique"`
	IsActive   bool      `gorm:"not null;default:true"`
	AssignedAt time.Time `gorm:"not null"`
}

func (RoleAssignmentModel) TableName() string { return "role_assignments" }
