package db

import "gorm.io/gorm"

// NotDeleted filters out soft-deleted rows. gorm's own soft-delete plugin
// already does this automatically for Find/First, but some aggregate
// queries (Count, raw joins) need it spelled out explicitly.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// WithDeleted includes soft-deleted rows — the "all" scope spec.md §3
// reserves for operators.
func WithDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	}
}

// Paginate applies offset/limit for a 1-indexed page of the given size.
func Paginate(page, perPage int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
