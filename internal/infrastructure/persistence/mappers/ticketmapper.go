package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type TicketMapper interface {
	ToEntity(model *models.TicketModel, partModels []*models.TicketPartModel) *ticket.Ticket
	ToModel(entity *ticket.Ticket) *models.TicketModel
	ToPartModels(ticketID uint, entity *ticket.Ticket) []*models.TicketPartModel
	ToEntities(modelList []*models.TicketModel, partsByTicket map[uint][]*models.TicketPartModel) []*ticket.Ticket
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper { return &TicketMapperImpl{} }

func (m *TicketMapperImpl) ToEntity(model *models.TicketModel, partModels []*models.TicketPartModel) *ticket.Ticket {
	if model == nil {
		return nil
	}
	parts := make([]*ticket.TicketPart, 0, len(partModels))
	for _, pm := range partModels {
		parts = append(parts, ticket.ReconstructTicketPart(pm.ID, pm.PartID, ticket.FlagColor(pm.Color), pm.Minutes, pm.Comment))
	}
	return ticket.ReconstructTicket(
		model.ID, model.SID, model.ItemID, model.Title, model.MasterID, model.TechnicianID, model.ApprovedByID,
		ticket.Status(model.Status), ticket.FlagColor(model.FlagColor), model.XPAmount, model.IsManual, parts,
		model.CreatedAt, model.AssignedAt, model.StartedAt, model.FinishedAt, model.TotalDurationMinutes,
		model.UpdatedAt, gormDeletedAtPtr(model.DeletedAt),
	)
}

func (m *TicketMapperImpl) ToModel(entity *ticket.Ticket) *models.TicketModel {
	if entity == nil {
		return nil
	}
	model := &models.TicketModel{
		ID: entity.ID(), SID: entity.SID(), ItemID: entity.ItemID(), Title: entity.Title(), MasterID: entity.MasterID(),
		TechnicianID: entity.TechnicianID(), ApprovedByID: entity.ApprovedByID(), Status: string(entity.Status()),
		FlagColor: string(entity.FlagColor()), XPAmount: entity.XPAmount(), IsManual: entity.IsManual(),
		CreatedAt: entity.CreatedAt(), AssignedAt: entity.AssignedAt(), StartedAt: entity.StartedAt(),
		FinishedAt: entity.FinishedAt(), TotalDurationMinutes: entity.TotalDurationMinutes(), UpdatedAt: entity.UpdatedAt(),
	}
	if dt := entity.DeletedAt(); dt != nil {
		model.DeletedAt = softDeletedAt(*dt)
	}
	return model
}

func (m *TicketMapperImpl) ToPartModels(ticketID uint, entity *ticket.Ticket) []*models.TicketPartModel {
	parts := entity.Parts()
	out := make([]*models.TicketPartModel, 0, len(parts))
	for _, p := range parts {
		out = append(out, &models.TicketPartModel{
			ID: p.ID(), TicketID: ticketID, PartID: p.PartID(), Color: string(p.Color()), Minutes: p.Minutes(), Comment: p.Comment(),
		})
	}
	return out
}

func (m *TicketMapperImpl) ToEntities(modelList []*models.TicketModel, partsByTicket map[uint][]*models.TicketPartModel) []*ticket.Ticket {
	out := make([]*ticket.Ticket, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.ToEntity(mo, partsByTicket[mo.ID]))
	}
	return out
}
