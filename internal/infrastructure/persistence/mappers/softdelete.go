package mappers

import (
	"time"

	"gorm.io/gorm"
)

// gormDeletedAtPtr and softDeletedAt convert between gorm's DeletedAt and
// the domain layer's plain *time.Time, keeping gorm out of every domain
// package.
func gormDeletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func softDeletedAt(t time.Time) gorm.DeletedAt {
	return gorm.DeletedAt{Time: t, Valid: true}
}
