package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// telegramOffsetRowID is the singleton row the polling offset lives in —
// there is exactly one getUpdates cursor per deployment.
const telegramOffsetRowID = 1

// TelegramOffsetStore is the gorm-backed
// infrastructure/telegram.OffsetStore, grounded on the same
// conn/Create-or-Update shape the other repositories in this package use.
type TelegramOffsetStore struct {
	db  *gorm.DB
	log logger.Interface
}

func NewTelegramOffsetStore(db *gorm.DB, log logger.Interface) *TelegramOffsetStore {
	return &TelegramOffsetStore{db: db, log: log}
}

func (s *TelegramOffsetStore) GetOffset(ctx context.Context) (int64, error) {
	var row models.TelegramOffsetModel
	err := s.db.WithContext(ctx).First(&row, telegramOffsetRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load telegram offset: %w", err)
	}
	return row.Offset, nil
}

func (s *TelegramOffsetStore) SaveOffset(ctx context.Context, offset int64) error {
	row := models.TelegramOffsetModel{ID: telegramOffsetRowID, Offset: offset}
	err := s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save telegram offset: %w", err)
	}
	return nil
}
