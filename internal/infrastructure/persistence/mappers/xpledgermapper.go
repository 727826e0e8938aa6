package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/xpledger"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type XPLedgerMapper interface {
	ToEntity(model *models.XPLedgerEntryModel) *xpledger.Entry
	ToModel(entity *xpledger.Entry) *models.XPLedgerEntryModel
	ToEntities(modelList []*models.XPLedgerEntryModel) []*xpledger.Entry
}

type XPLedgerMapperImpl struct{}

func NewXPLedgerMapper() XPLedgerMapper { return &XPLedgerMapperImpl{} }

func (m *XPLedgerMapperImpl) ToEntity(model *models.XPLedgerEntryModel) *xpledger.Entry {
	if model == nil {
		return nil
	}
	return xpledger.ReconstructEntry(
		model.ID, model.SID, model.UserID, xpledger.Source(model.Source), xpledger.ReferenceType(model.ReferenceType),
		model.ReferenceID, model.Amount, model.ReasonLabel, model.CreatedAt,
	)
}

func (m *XPLedgerMapperImpl) ToModel(entity *xpledger.Entry) *models.XPLedgerEntryModel {
	if entity == nil {
		return nil
	}
	return &models.XPLedgerEntryModel{
		ID: entity.ID(), SID: entity.SID(), UserID: entity.UserID(), Source: string(entity.Source()),
		ReferenceType: string(entity.ReferenceType()), ReferenceID: entity.ReferenceID(), Amount: entity.Amount(),
		ReasonLabel: entity.ReasonLabel(), CreatedAt: entity.CreatedAt(),
	}
}

func (m *XPLedgerMapperImpl) ToEntities(modelList []*models.XPLedgerEntryModel) []*xpledger.Entry {
	out := make([]*xpledger.Entry, 0, len(modelList))
	for _, mo := range modelList {
		out = append(out, m.ToEntity(mo))
	}
	return out
}
