package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type InventoryMapper interface {
	CategoryToEntity(model *models.CategoryModel) *inventory.Category
	CategoryToModel(entity *inventory.Category) *models.CategoryModel
	CategoriesToEntities(modelList []*models.CategoryModel) []*inventory.Category

	ItemToEntity(model *models.ItemModel) *inventory.Item
	ItemToModel(entity *inventory.Item) *models.ItemModel
	ItemsToEntities(modelList []*models.ItemModel) []*inventory.Item

	PartToEntity(model *models.PartModel) *inventory.Part
	PartToModel(entity *inventory.Part) *models.PartModel
	PartsToEntities(modelList []*models.PartModel) []*inventory.Part
}

type InventoryMapperImpl struct{}

func NewInventoryMapper() InventoryMapper { return &InventoryMapperImpl{} }

func (m *InventoryMapperImpl) CategoryToEntity(model *models.CategoryModel) *inventory.Category {
	if model == nil {
		return nil
	}
	return inventory.ReconstructCategory(model.ID, model.SID, model.Name)
}

func (m *InventoryMapperImpl) CategoryToModel(entity *inventory.Category) *models.CategoryModel {
	if entity == nil {
		return nil
	}
	return &models.CategoryModel{ID: entity.ID(), SID: entity.SID(), Name: entity.Name()}
}

func (m *InventoryMapperImpl) CategoriesToEntities(modelList []*models.CategoryModel) []*inventory.Category {
	out := make([]*inventory.Category, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.CategoryToEntity(mo))
	}
	return out
}

func (m *InventoryMapperImpl) ItemToEntity(model *models.ItemModel) *inventory.Item {
	if model == nil {
		return nil
	}
	return inventory.ReconstructItem(
		model.ID, model.SID, model.SerialNumber, model.Name, model.CategoryID,
		inventory.ItemStatus(model.Status), model.IsActive, model.CreatedAt, model.UpdatedAt,
		gormDeletedAtPtr(model.DeletedAt),
	)
}

func (m *InventoryMapperImpl) ItemToModel(entity *inventory.Item) *models.ItemModel {
	if entity == nil {
		return nil
	}
	model := &models.ItemModel{
		ID: entity.ID(), SID: entity.SID(), SerialNumber: entity.SerialNumber(), Name: entity.Name(),
		CategoryID: entity.CategoryID(), Status: string(entity.Status()), IsActive: entity.IsActive(),
		CreatedAt: entity.CreatedAt(), UpdatedAt: entity.UpdatedAt(),
	}
	if dt := entity.DeletedAt(); dt != nil {
		model.DeletedAt = softDeletedAt(*dt)
	}
	return model
}

func (m *InventoryMapperImpl) ItemsToEntities(modelList []*models.ItemModel) []*inventory.Item {
	out := make([]*inventory.Item, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.ItemToEntity(mo))
	}
	return out
}

func (m *InventoryMapperImpl) PartToEntity(model *models.PartModel) *inventory.Part {
	if model == nil {
		return nil
	}
	return inventory.ReconstructPart(model.ID, model.SID, model.Name, model.CategoryID, model.ItemID)
}

func (m *InventoryMapperImpl) PartToModel(entity *inventory.Part) *models.PartModel {
	if entity == nil {
		return nil
	}
	return &models.PartModel{
		ID: entity.ID(), SID: entity.SID(), Name: entity.Name(), CategoryID: entity.CategoryID(), ItemID: entity.ItemID(),
	}
}

func (m *InventoryMapperImpl) PartsToEntities(modelList []*models.PartModel) []*inventory.Part {
	out := make([]*inventory.Part, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.PartToEntity(mo))
	}
	return out
}
