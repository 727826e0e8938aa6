package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// TicketTransitionRepositoryDDD implements audit.TicketTransitionRepository.
// It exposes no Update or Delete method, mirroring the interface, and the
// backing table additionally carries a trigger that rejects those
// statements even against a direct SQL client (spec.md §4.6).
type TicketTransitionRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.AuditMapper
	log    logger.Interface
}

func NewTicketTransitionRepositoryDDD(db *gorm.DB, log logger.Interface) audit.TicketTransitionRepository {
	return &TicketTransitionRepositoryDDD{db: db, mapper: mappers.NewAuditMapper(), log: log}
}

func (r *TicketTransitionRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *TicketTransitionRepositoryDDD) Append(ctx context.Context, t *audit.TicketTransition) error {
	model := r.mapper.TicketTransitionToModel(t)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append ticket transition: %w", err)
	}
	t.SetID(model.ID)
	return nil
}

func (r *TicketTransitionRepositoryDDD) ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error) {
	q := r.conn(ctx).Model(&models.TicketTransitionModel{}).Where("ticket_id = ?", ticketID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ticket transitions: %w", err)
	}

	var modelList []*models.TicketTransitionModel
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list ticket transitions: %w", err)
	}

	return r.mapper.TicketTransitionsToEntities(modelList), total, nil
}

func (r *TicketTransitionRepositoryDDD) EverReworked(ctx context.Context, ticketID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.TicketTransitionModel{}).
		Where("ticket_id = ? AND action = ?", ticketID, string(ticket.ActionQCFail)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check rework history: %w", err)
	}
	return count > 0, nil
}

type WorkSessionTransitionRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.AuditMapper
	log    logger.Interface
}

func NewWorkSessionTransitionRepositoryDDD(db *gorm.DB, log logger.Interface) audit.WorkSessionTransitionRepository {
	return &WorkSessionTransitionRepositoryDDD{db: db, mapper: mappers.NewAuditMapper(), log: log}
}

func (r *WorkSessionTransitionRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *WorkSessionTransitionRepositoryDDD) Append(ctx context.Context, t *audit.WorkSessionTransition) error {
	model := r.mapper.WorkSessionTransitionToModel(t)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append work session transition: %w", err)
	}
	t.SetID(model.ID)
	return nil
}

func (r *WorkSessionTransitionRepositoryDDD) ListBySession(ctx context.Context, sessionID uint, page, perPage int) ([]*audit.WorkSessionTransition, int64, error) {
	q := r.conn(ctx).Model(&models.WorkSessionTransitionModel{}).Where("session_id = ?", sessionID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count work session transitions: %w", err)
	}

	var modelList []*models.WorkSessionTransitionModel
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("event_at ASC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list work session transitions: %w", err)
	}

	return r.mapper.WorkSessionTransitionsToEntities(modelList), total, nil
}

func (r *WorkSessionTransitionRepositoryDDD) ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.WorkSessionTransition, int64, error) {
	q := r.conn(ctx).Model(&models.WorkSessionTransitionModel{}).Where("ticket_id = ?", ticketID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count work session transitions: %w", err)
	}

	var modelList []*models.WorkSessionTransitionModel
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("event_at ASC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list work session transitions: %w", err)
	}

	return r.mapper.WorkSessionTransitionsToEntities(modelList), total, nil
}
