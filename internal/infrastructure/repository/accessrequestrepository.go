package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/accessrequest"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type AccessRequestRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.AccessRequestMapper
	log    logger.Interface
}

func NewAccessRequestRepositoryDDD(db *gorm.DB, log logger.Interface) accessrequest.Repository {
	return &AccessRequestRepositoryDDD{db: db, mapper: mappers.NewAccessRequestMapper(), log: log}
}

func (r *AccessRequestRepositoryDDD) conn(ctx context.Context) *gorm.DB {
	return sharedDB.GetTxFromContext(ctx, r.db)
}

func (r *AccessRequestRepositoryDDD) Create(ctx context.Context, req *accessrequest.AccessRequest) error {
	model := r.mapper.ToModel(req)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "uq_access_requests_pending_telegram") {
			return accessrequest.ErrAlreadyPending
		}
		return fmt.Errorf("failed to create access request: %w", err)
	}
	req.SetID(model.ID)
	return nil
}

func (r *AccessRequestRepositoryDDD) Update(ctx context.Context, req *accessrequest.AccessRequest) error {
	model := r.mapper.ToModel(req)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update access request: %w", err)
	}
	return nil
}

func (r *AccessRequestRepositoryDDD) FindByID(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) {
	var model models.AccessRequestModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accessrequest.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find access request: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *AccessRequestRepositoryDDD) FindPendingByTelegramID(ctx context.Context, telegramID int64) (*accessrequest.AccessRequest, error) {
	var model models.AccessRequestModel
	err := r.conn(ctx).Where("telegram_id = ? AND status = ?", telegramID, string(accessrequest.StatusPending)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accessrequest.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending access request: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *AccessRequestRepositoryDDD) List(ctx context.Context, status accessrequest.Status, page, perPage int) ([]*accessrequest.AccessRequest, int64, error) {
	var modelList []*models.AccessRequestModel
	var total int64

	query := r.conn(ctx).Model(&models.AccessRequestModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count access requests: %w", err)
	}
	if err := query.Scopes(sharedDB.Paginate(page, perPage)).Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list access requests: %w", err)
	}

	return r.mapper.ToEntities(modelList), total, nil
}
