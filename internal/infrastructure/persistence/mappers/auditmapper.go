package mappers

import (
	"gorm.io/datatypes"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type AuditMapper interface {
	TicketTransitionToEntity(model *models.TicketTransitionModel) *audit.TicketTransition
	TicketTransitionToModel(entity *audit.TicketTransition) *models.TicketTransitionModel
	TicketTransitionsToEntities(modelList []*models.TicketTransitionModel) []*audit.TicketTransition

	WorkSessionTransitionToEntity(model *models.WorkSessionTransitionModel) *audit.WorkSessionTransition
	WorkSessionTransitionToModel(entity *audit.WorkSessionTransition) *models.WorkSessionTransitionModel
	WorkSessionTransitionsToEntities(modelList []*models.WorkSessionTransitionModel) []*audit.WorkSessionTransition
}

type AuditMapperImpl struct{}

func NewAuditMapper() AuditMapper { return &AuditMapperImpl{} }

func (m *AuditMapperImpl) TicketTransitionToEntity(model *models.TicketTransitionModel) *audit.TicketTransition {
	if model == nil {
		return nil
	}
	return audit.ReconstructTicketTransition(
		model.ID, model.TicketID, model.ActorID, model.Action, model.FromStatus, model.ToStatus, model.Note,
		map[string]any(model.Metadata), model.CreatedAt,
	)
}

func (m *AuditMapperImpl) TicketTransitionToModel(entity *audit.TicketTransition) *models.TicketTransitionModel {
	if entity == nil {
		return nil
	}
	return &models.TicketTransitionModel{
		ID: entity.ID(), TicketID: entity.TicketID(), ActorID: entity.ActorID(), Action: entity.Action(),
		FromStatus: entity.FromStatus(), ToStatus: entity.ToStatus(), Note: entity.Note(),
		Metadata: datatypes.JSONMap(entity.Metadata()), CreatedAt: entity.CreatedAt(),
	}
}

func (m *AuditMapperImpl) TicketTransitionsToEntities(modelList []*models.TicketTransitionModel) []*audit.TicketTransition {
	out := make([]*audit.TicketTransition, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.TicketTransitionToEntity(mo))
	}
	return out
}

func (m *AuditMapperImpl) WorkSessionTransitionToEntity(model *models.WorkSessionTransitionModel) *audit.WorkSessionTransition {
	if model == nil {
		return nil
	}
	return audit.ReconstructWorkSessionTransition(
		model.ID, model.SessionID, model.TicketID, model.ActorID, audit.WorkSessionAction(model.Action),
		model.FromStatus, model.ToStatus, model.EventAt, map[string]any(model.Metadata),
	)
}

func (m *AuditMapperImpl) WorkSessionTransitionToModel(entity *audit.WorkSessionTransition) *models.WorkSessionTransitionModel {
	if entity == nil {
		return nil
	}
	return &models.WorkSessionTransitionModel{
		ID: entity.ID(), SessionID: entity.SessionID(), TicketID: entity.TicketID(), ActorID: entity.ActorID(),
		Action: string(entity.Action()), FromStatus: entity.FromStatus(), ToStatus: entity.ToStatus(),
		EventAt: entity.EventAt(), Metadata: datatypes.JSONMap(entity.Metadata()),
	}
}

func (m *AuditMapperImpl) WorkSessionTransitionsToEntities(modelList []*models.WorkSessionTransitionModel) []*audit.WorkSessionTransition {
	out := make([]*audit.WorkSessionTransition, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.WorkSessionTransitionToEntity(mo))
	}
	return out
}
