package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type CategoryRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.InventoryMapper
	log    logger.Interface
}

func NewCategoryRepositoryDDD(db *gorm.DB, log logger.Interface) inventory.CategoryRepository {
	return &CategoryRepositoryDDD{db: db, mapper: mappers.NewInventoryMapper(), log: log}
}

func (r *CategoryRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *CategoryRepositoryDDD) Create(ctx context.Context, c *inventory.Category) error {
	model := r.mapper.CategoryToModel(c)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "") {
			return inventory.ErrCategoryNameExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

func (r *CategoryRepositoryDDD) Update(ctx context.Context, c *inventory.Category) error {
	if err := r.conn(ctx).Save(r.mapper.CategoryToModel(c)).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepositoryDDD) FindByID(ctx context.Context, id uint) (*inventory.Category, error) {
	var model models.CategoryModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return r.mapper.CategoryToEntity(&model), nil
}

func (r *CategoryRepositoryDDD) List(ctx context.Context) ([]*inventory.Category, error) {
	var modelList []*models.CategoryModel
	if err := r.conn(ctx).Order("name ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return r.mapper.CategoriesToEntities(modelList), nil
}

type ItemRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.InventoryMapper
	log    logger.Interface
}

func NewItemRepositoryDDD(db *gorm.DB, log logger.Interface) inventory.ItemRepository {
	return &ItemRepositoryDDD{db: db, mapper: mappers.NewInventoryMapper(), log: log}
}

func (r *ItemRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *ItemRepositoryDDD) Create(ctx context.Context, i *inventory.Item) error {
	model := r.mapper.ItemToModel(i)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if sharedDB.IsUniqueViolation(err, "") {
			return inventory.ErrSerialNumberExists
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	i.SetID(model.ID)
	return nil
}

func (r *ItemRepositoryDDD) Update(ctx context.Context, i *inventory.Item) error {
	if err := r.conn(ctx).Save(r.mapper.ItemToModel(i)).Error; err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (r *ItemRepositoryDDD) FindByID(ctx context.Context, id uint) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return r.mapper.ItemToEntity(&model), nil
}

func (r *ItemRepositoryDDD) FindBySerialNumber(ctx context.Context, serialNumber string) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.conn(ctx).Where("serial_number = ?", serialNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by serial number: %w", err)
	}
	return r.mapper.ItemToEntity(&model), nil
}

func (r *ItemRepositoryDDD) List(ctx context.Context, categoryID *uint, status *inventory.ItemStatus, query string, page, perPage int) ([]*inventory.Item, int64, error) {
	var modelList []*models.ItemModel
	var total int64

	q := r.conn(ctx).Model(&models.ItemModel{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	if len(query) >= 2 {
		like := "%" + query + "%"
		q = q.Where("name ILIKE ? OR serial_number ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	return r.mapper.ItemsToEntities(modelList), total, nil
}

func (r *ItemRepositoryDDD) SoftDelete(ctx context.Context, id uint) error {
	result := r.conn(ctx).Delete(&models.ItemModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to soft delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}

type PartRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.InventoryMapper
	log    logger.Interface
}

func NewPartRepositoryDDD(db *gorm.DB, log logger.Interface) inventory.PartRepository {
	return &PartRepositoryDDD{db: db, mapper: mappers.NewInventoryMapper(), log: log}
}

func (r *PartRepositoryDDD) conn(ctx context.Context) *gorm.DB { return sharedDB.GetTxFromContext(ctx, r.db) }

func (r *PartRepositoryDDD) Create(ctx context.Context, p *inventory.Part) error {
	model := r.mapper.PartToModel(p)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PartRepositoryDDD) FindByID(ctx context.Context, id uint) (*inventory.Part, error) {
	var model models.PartModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to find part: %w", err)
	}
	return r.mapper.PartToEntity(&model), nil
}

func (r *PartRepositoryDDD) ListByCategory(ctx context.Context, categoryID uint, itemID *uint) ([]*inventory.Part, error) {
	q := r.conn(ctx).Where("category_id = ?", categoryID)
	if itemID != nil {
		q = q.Where("item_id IS NULL OR item_id = ?", *itemID)
	} else {
		q = q.Where("item_id IS NULL")
	}

	var modelList []*models.PartModel
	if err := q.Order("name ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list parts by category: %w", err)
	}
	return r.mapper.PartsToEntities(modelList), nil
}

func (r *PartRepositoryDDD) List(ctx context.Context, page, perPage int) ([]*inventory.Part, int64, error) {
	var modelList []*models.PartModel
	var total int64

	q := r.conn(ctx).Model(&models.PartModel{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count parts: %w", err)
	}
	if err := q.Scopes(sharedDB.Paginate(page, perPage)).Order("name ASC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", err)
	}

	return r.mapper.PartsToEntities(modelList), total, nil
}
