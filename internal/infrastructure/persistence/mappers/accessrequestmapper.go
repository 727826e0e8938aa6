package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/accessrequest"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type AccessRequestMapper interface {
	ToEntity(model *models.AccessRequestModel) *accessrequest.AccessRequest
	ToModel(entity *accessrequest.AccessRequest) *models.AccessRequestModel
	ToEntities(modelList []*models.AccessRequestModel) []*accessrequest.AccessRequest
}

type AccessRequestMapperImpl struct{}

func NewAccessRequestMapper() AccessRequestMapper { return &AccessRequestMapperImpl{} }

func (m *AccessRequestMapperImpl) ToEntity(model *models.AccessRequestModel) *accessrequest.AccessRequest {
	if model == nil {
		return nil
	}
	return accessrequest.Reconstruct(
		model.ID, model.SID, model.TelegramID, model.TelegramUsername, model.FirstName, model.LastName, model.Phone,
		accessrequest.Status(model.Status), model.ResolvedByUserID, model.ResolvedAt, model.LinkedUserID,
		model.CreatedAt, model.UpdatedAt,
	)
}

func (m *AccessRequestMapperImpl) ToModel(entity *accessrequest.AccessRequest) *models.AccessRequestModel {
	if entity == nil {
		return nil
	}
	return &models.AccessRequestModel{
		ID: entity.ID(), SID: entity.SID(), TelegramID: entity.TelegramID(),
		TelegramUsername: entity.TelegramUsername(), FirstName: entity.FirstName(), LastName: entity.LastName(),
		Phone: entity.Phone(), Status: string(entity.Status()), ResolvedByUserID: entity.ResolvedByUserID(),
		ResolvedAt: entity.ResolvedAt(), LinkedUserID: entity.LinkedUserID(),
		CreatedAt: entity.CreatedAt(), UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *AccessRequestMapperImpl) ToEntities(modelList []*models.AccessRequestModel) []*accessrequest.AccessRequest {
	out := make([]*accessrequest.AccessRequest, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.ToEntity(mo))
	}
	return out
}
