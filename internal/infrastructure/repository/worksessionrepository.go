package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type WorkSessionRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.WorkSessionMapper
	log    logger.Interface
}

func NewWorkSessionRepositoryDDD(db *gorm.DB, log logger.Interface) worksession.Repository {
	return &WorkSessionRepositoryDDD{db: db, mapper: mappers.NewWorkSessionMapper(), log: log}
}

func (r *WorkSessionRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *WorkSessionRepositoryDDD) Create(ctx context.Context, w *worksession.WorkSession) error {
	model := r.mapper.ToModel(w)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "uq_work_sessions_ticket_active") {
			return worksession.ErrTicketAlreadyActive
		}
		if sharedDB.IsUniqueViolation(err, "uq_work_sessions_technician_active") {
			return worksession.ErrTechnicianAlreadyActive
		}
		return fmt.Errorf("failed to create work session: %w", err)
	}
	w.SetID(model.ID)
	return nil
}

func (r *WorkSessionRepositoryDDD) Update(ctx context.Context, w *worksession.WorkSession) error {
	if err := r.conn(ctx).Save(r.mapper.ToModel(w)).Error; err != nil {
		return fmt.Errorf("failed to update work session: %w", err)
	}
	return nil
}

func (r *WorkSessionRepositoryDDD) FindByIDForUpdate(ctx context.Context, id uint) (*worksession.WorkSession, error) {
	var model models.WorkSessionModel
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find work session for update: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WorkSessionRepositoryDDD) FindByID(ctx context.Context, id uint) (*worksession.WorkSession, error) {
	var model models.WorkSessionModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find work session: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WorkSessionRepositoryDDD) FindActiveByTicket(ctx context.Context, ticketID uint) (*worksession.WorkSession, error) {
	var model models.WorkSessionModel
	err := r.conn(ctx).Where("ticket_id = ? AND status <> ?", ticketID, string(worksession.StatusStopped)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active session for ticket: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WorkSessionRepositoryDDD) FindActiveByTechnician(ctx context.Context, technicianID uint) (*worksession.WorkSession, error) {
	var model models.WorkSessionModel
	err := r.conn(ctx).Where("technician_id = ? AND status <> ?", technicianID, string(worksession.StatusStopped)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active session for technician: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WorkSessionRepositoryDDD) ListByTicket(ctx context.Context, ticketID uint) ([]*worksession.WorkSession, error) {
	var modelList []*models.WorkSessionModel
	if err := r.conn(ctx).Where("ticket_id = ?", ticketID).Order("started_at ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list work sessions by ticket: %w", err)
	}
	return r.mapper.ToEntities(modelList), nil
}

func (r *WorkSessionRepositoryDDD) SumStoppedAccumulatedSeconds(ctx context.Context, ticketID uint) (int64, error) {
	var sum int64
	err := r.conn(ctx).Model(&models.WorkSessionModel{}).
		Where("ticket_id = ? AND status = ?", ticketID, string(worksession.StatusStopped)).
		Select("COALESCE(SUM(accumulated_seconds), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum stopped session durations: %w", err)
	}
	return sum, nil
}
