package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/attendance"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type AttendanceRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.AttendanceMapper
	log    logger.Interface
}

func NewAttendanceRepositoryDDD(db *gorm.DB, log logger.Interface) attendance.Repository {
	return &AttendanceRepositoryDDD{db: db, mapper: mappers.NewAttendanceMapper(), log: log}
}

func (r *AttendanceRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *AttendanceRepositoryDDD) Create(ctx context.Context, c *attendance.CheckIn) error {
	model := r.mapper.ToModel(c)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "") {
			return attendance.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

func (r *AttendanceRepositoryDDD) FindByUserAndDay(ctx context.Context, userID uint, calendarDay time.Time) (*attendance.CheckIn, error) {
	var model models.CheckInModel
	err := r.conn(ctx).Where("user_id = ? AND calendar_day = ?", userID, calendarDay).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find check-in: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}
