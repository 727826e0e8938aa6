package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type TicketRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	log    logger.Interface
}

func NewTicketRepositoryDDD(db *gorm.DB, log logger.Interface) ticket.Repository {
	return &TicketRepositoryDDD{db: db, mapper: mappers.NewTicketMapper(), log: log}
}

func (r *TicketRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *TicketRepositoryDDD) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	t.SetID(model.ID)

	for _, pm := range r.mapper.ToPartModels(model.ID, t) {
		pm.ID = 0
		if err := r.conn(ctx).Create(pm).Error; err != nil {
			return fmt.Errorf("failed to create ticket part: %w", err)
		}
	}
	return nil
}

// Update persists mutations to the ticket row only; Parts are immutable
// after creation and are never rewritten here.
func (r *TicketRepositoryDDD) Update(ctx context.Context, t *ticket.Ticket) error {
	if err := r.conn(ctx).Save(r.mapper.ToModel(t)).Error; err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return nil
}

func (r *TicketRepositoryDDD) loadParts(ctx context.Context, ticketID uint) ([]*models.TicketPartModel, error) {
	var partModels []*models.TicketPartModel
	if err := r.conn(ctx).Where("ticket_id = ?", ticketID).Find(&partModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load ticket parts: %w", err)
	}
	return partModels, nil
}

func (r *TicketRepositoryDDD) FindByIDForUpdate(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ticket for update: %w", err)
	}
	parts, err := r.loadParts(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&model, parts), nil
}

func (r *TicketRepositoryDDD) FindByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	parts, err := r.loadParts(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&model, parts), nil
}

func (r *TicketRepositoryDDD) HasActiveTicketForItem(ctx context.Context, itemID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.TicketModel{}).
		Where("item_id = ? AND status <> ?", itemID, string(ticket.StatusDone)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active ticket for item: %w", err)
	}
	return count > 0, nil
}

func (r *TicketRepositoryDDD) List(ctx context.Context, f ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
	q := r.conn(ctx).Model(&models.TicketModel{})
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.ItemID != nil {
		q = q.Where("item_id = ?", *f.ItemID)
	}
	if f.MasterID != nil {
		q = q.Where("master_id = ?", *f.MasterID)
	}
	if f.Technician != nil {
		q = q.Where("technician_id = ?", *f.Technician)
	}
	if len(f.Query) >= 2 {
		q = q.Where("title ILIKE ?", "%"+f.Query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var modelList []*models.TicketModel
	if err := q.Scopes(sharedDB.Paginate(f.Page, f.PerPage)).Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	ids := make([]uint, 0, len(modelList))
	for _, m := range modelList {
		ids = append(ids, m.ID)
	}
	partsByTicket := make(map[uint][]*models.TicketPartModel)
	if len(ids) > 0 {
		var partModels []*models.TicketPartModel
		if err := r.conn(ctx).Where("ticket_id IN ?", ids).Find(&partModels).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to load ticket parts: %w", err)
		}
		for _, pm := range partModels {
			partsByTicket[pm.TicketID] = append(partsByTicket[pm.TicketID], pm)
		}
	}

	return r.mapper.ToEntities(modelList, partsByTicket), total, nil
}
