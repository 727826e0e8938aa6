package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type WorkSessionMapper interface {
	ToEntity(model *models.WorkSessionModel) *worksession.WorkSession
	ToModel(entity *worksession.WorkSession) *models.WorkSessionModel
	ToEntities(modelList []*models.WorkSessionModel) []*worksession.WorkSession
}

type WorkSessionMapperImpl struct{}

func NewWorkSessionMapper() WorkSessionMapper { return &WorkSessionMapperImpl{} }

func (m *WorkSessionMapperImpl) ToEntity(model *models.WorkSessionModel) *worksession.WorkSession {
	if model == nil {
		return nil
	}
	return worksession.Reconstruct(
		model.ID, model.SID, model.TicketID, model.TechnicianID, worksession.Status(model.Status),
		model.StartedAt, model.LastStartedAt, model.AccumulatedSeconds, model.StoppedAt,
	)
}

func (m *WorkSessionMapperImpl) ToModel(entity *worksession.WorkSession) *models.WorkSessionModel {
	if entity == nil {
		return nil
	}
	return &models.WorkSessionModel{
		ID: entity.ID(), SID: entity.SID(), TicketID: entity.TicketID(), TechnicianID: entity.TechnicianID(),
		Status: string(entity.Status()), StartedAt: entity.StartedAt(), LastStartedAt: entity.LastStartedAt(),
		AccumulatedSeconds: entity.AccumulatedSeconds(), StoppedAt: entity.StoppedAt(),
	}
}

func (m *WorkSessionMapperImpl) ToEntities(modelList []*models.WorkSessionModel) []*worksession.WorkSession {
	out := make([]*worksession.WorkSession, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.ToEntity(mo))
	}
	return out
}
