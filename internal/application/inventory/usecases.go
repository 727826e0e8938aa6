// Package inventory implements C3's catalog CRUD: categories, items
// (the physical units tickets are opened against), and the parts scoped to
// a category or a single item (spec.md §4.3).
package inventory

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/inventory"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
)

type CreateCategoryCommand struct {
	Name string
}

type CategoryUseCase struct {
	repo inventory.CategoryRepository
}

func NewCategoryUseCase(repo inventory.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

func (uc *CategoryUseCase) Create(ctx context.Context, cmd CreateCategoryCommand) (*inventory.Category, error) {
	sid, err := id.NewSID(id.PrefixCategory)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate id", err.Error())
	}
	c, err := inventory.NewCategory(sid, cmd.Name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, apperrors.NewInternalError("failed to create category", err.Error())
	}
	return c, nil
}

func (uc *CategoryUseCase) Rename(ctx context.Context, categoryID uint, name string) (*inventory.Category, error) {
	c, err := uc.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, apperrors.NewNotFoundError(inventory.ErrCategoryNotFound.Error())
	}
	if err := c.Rename(name); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, apperrors.NewInternalError("failed to update category", err.Error())
	}
	return c, nil
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]*inventory.Category, error) {
	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err.Error())
	}
	return categories, nil
}

type CreateItemCommand struct {
	SerialNumber string
	Name         string
	CategoryID   uint
}

type ItemUseCase struct {
	repo     inventory.ItemRepository
	catRepo  inventory.CategoryRepository
}

func NewItemUseCase(repo inventory.ItemRepository, catRepo inventory.CategoryRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, catRepo: catRepo}
}

func (uc *ItemUseCase) Create(ctx context.Context, cmd CreateItemCommand) (*inventory.Item, error) {
	if _, err := uc.catRepo.FindByID(ctx, cmd.CategoryID); err != nil {
		return nil, apperrors.NewNotFoundError(inventory.ErrCategoryNotFound.Error())
	}
	if existing, err := uc.repo.FindBySerialNumber(ctx, cmd.SerialNumber); err == nil && existing != nil {
		return nil, apperrors.NewConflictError(inventory.ErrSerialNumberExists.Error())
	}

	sid, err := id.NewSID(id.PrefixItem)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate id", err.Error())
	}
	item, err := inventory.NewItem(sid, cmd.SerialNumber, cmd.Name, cmd.CategoryID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, apperrors.NewInternalError("failed to create item", err.Error())
	}
	return item, nil
}

type ListItemsCommand struct {
	CategoryID *uint
	Status     *inventory.ItemStatus
	Query      string
	Page       int
	PerPage    int
}

type ListItemsResult struct {
	Items   []*inventory.Item
	Total   int64
	Page    int
	PerPage int
}

func (uc *ItemUseCase) List(ctx context.Context, cmd ListItemsCommand) (*ListItemsResult, error) {
	page, perPage := cmd.Page, cmd.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	items, total, err := uc.repo.List(ctx, cmd.CategoryID, cmd.Status, cmd.Query, page, perPage)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list items", err.Error())
	}
	return &ListItemsResult{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (uc *ItemUseCase) Get(ctx context.Context, itemID uint) (*inventory.Item, error) {
	item, err := uc.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, apperrors.NewNotFoundError(inventory.ErrItemNotFound.Error())
	}
	return item, nil
}

func (uc *ItemUseCase) Deactivate(ctx context.Context, itemID uint) error {
	item, err := uc.repo.FindByID(ctx, itemID)
	if err != nil {
		return apperrors.NewNotFoundError(inventory.ErrItemNotFound.Error())
	}
	item.Deactivate()
	if err := uc.repo.Update(ctx, item); err != nil {
		return apperrors.NewInternalError("failed to deactivate item", err.Error())
	}
	return nil
}

type CreatePartCommand struct {
	Name       string
	CategoryID uint
	ItemID     *uint
}

type PartUseCase struct {
	repo    inventory.PartRepository
	catRepo inventory.CategoryRepository
}

func NewPartUseCase(repo inventory.PartRepository, catRepo inventory.CategoryRepository) *PartUseCase {
	return &PartUseCase{repo: repo, catRepo: catRepo}
}

func (uc *PartUseCase) Create(ctx context.Context, cmd CreatePartCommand) (*inventory.Part, error) {
	if _, err := uc.catRepo.FindByID(ctx, cmd.CategoryID); err != nil {
		return nil, apperrors.NewNotFoundError(inventory.ErrCategoryNotFound.Error())
	}
	sid, err := id.NewSID(id.PrefixPart)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate id", err.Error())
	}
	part, err := inventory.NewPart(sid, cmd.Name, cmd.CategoryID, cmd.ItemID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, apperrors.NewInternalError("failed to create part", err.Error())
	}
	return part, nil
}

func (uc *PartUseCase) ListByCategory(ctx context.Context, categoryID uint, itemID *uint) ([]*inventory.Part, error) {
	parts, err := uc.repo.ListByCategory(ctx, categoryID, itemID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list parts", err.Error())
	}
	return parts, nil
}
