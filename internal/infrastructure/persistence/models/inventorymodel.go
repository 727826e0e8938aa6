package models

import (
	"time"

	"gorm.io/gorm"
)

// CategoryModel is an inventory category (spec.md §4.3).
type CategoryModel struct {
	ID   uint   `gorm:"primarykey"`
	SID  string `gorm:"uniqueIndex;not null;size:50"`
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

func (CategoryModel) TableName() string { return "inventory_categories" }

// ItemModel is a physical unit — the object a ticket is opened against
// (spec.md §4.3). Status is mutated exclusively through the ticket state
// engine, never directly by inventory operators.
type ItemModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"uniqueIndex;not null;size:50"`
	SerialNumber string `gorm:"uniqueIndex;not null;size:100"`
	Name         string `gorm:"size:200;not null"`
	CategoryID   uint   `gorm:"not null;index"`
	Status       string `gorm:"size:20;not null;index"`
	IsActive     bool   `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ItemModel) TableName() string { return "inventory_items" }

// PartModel is a catalog entry scoped to a category and, optionally, to one
// specific item within it (spec.md §4.3).
type PartModel struct {
	ID         uint   `gorm:"primarykey"`
	SID        string `gorm:"uniqueIndex;not null;size:50"`
	Name       string `gorm:"size:200;not null"`
	CategoryID uint   `gorm:"not null;index"`
	ItemID     *uint  `gorm:"index"`
}

func (PartModel) TableName() string { return "inventory_parts" }
