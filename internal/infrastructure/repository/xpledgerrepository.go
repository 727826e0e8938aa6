package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/xpledger"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// XPLedgerRepositoryDDD is insert-and-read only, mirroring the domain
// interface — there is no Update or Delete (spec.md §4.7).
type XPLedgerRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.XPLedgerMapper
	log    logger.Interface
}

func NewXPLedgerRepositoryDDD(db *gorm.DB, log logger.Interface) xpledger.Repository {
	return &XPLedgerRepositoryDDD{db: db, mapper: mappers.NewXPLedgerMapper(), log: log}
}

func (r *XPLedgerRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *XPLedgerRepositoryDDD) Append(ctx context.Context, e *xpledger.Entry) error {
	model := r.mapper.ToModel(e)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "uq_xp_ledger_idempotency") {
			return xpledger.ErrDuplicateEmission
		}
		return fmt.Errorf("failed to append xp ledger entry: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *XPLedgerRepositoryDDD) ExistsForKey(ctx context.Context, userID uint, source xpledger.Source, referenceType xpledger.ReferenceType, referenceID string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.XPLedgerEntryModel{}).
		Where("user_id = ? AND source = ? AND reference_type = ? AND reference_id = ?", userID, string(source), string(referenceType), referenceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check xp ledger idempotency key: %w", err)
	}
	return count > 0, nil
}

func (r *XPLedgerRepositoryDDD) ListByUser(ctx context.Context, userID uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
	return r.list(ctx, &userID, page, perPage)
}

func (r *XPLedgerRepositoryDDD) List(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
	return r.list(ctx, userID, page, perPage)
}

func (r *XPLedgerRepositoryDDD) list(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
	q := r.conn(ctx).Model(&models.XPLedgerEntryModel{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count xp ledger entries: %w", err)
	}

	var modelList []*models.XPLedgerEntryModel
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list xp ledger entries: %w", err)
	}

	return r.mapper.ToEntities(modelList), total, nil
}

func (r *XPLedgerRepositoryDDD) SumByUser(ctx context.Context, userID uint) (int, error) {
	var sum int
	err := r.conn(ctx).Model(&models.XPLedgerEntryModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum xp ledger entries: %w", err)
	}
	return sum, nil
}
