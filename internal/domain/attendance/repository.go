package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *CheckIn) error
	FindByUserAndDay(ctx context.Context, userID uint, calendarDay time.Time) (*CheckIn, error)
}
