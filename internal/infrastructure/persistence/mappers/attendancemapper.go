package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/attendance"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

type AttendanceMapper interface {
	ToEntity(model *models.CheckInModel) *attendance.CheckIn
	ToModel(entity *attendance.CheckIn) *models.CheckInModel
}

type AttendanceMapperImpl struct{}

func NewAttendanceMapper() AttendanceMapper { return &AttendanceMapperImpl{} }

func (m *AttendanceMapperImpl) ToEntity(model *models.CheckInModel) *attendance.CheckIn {
	if model == nil {
		return nil
	}
	return attendance.ReconstructCheckIn(model.ID, model.SID, model.UserID, model.CheckedInAt, model.CalendarDay, model.OnTime, model.CreatedAt)
}

func (m *AttendanceMapperImpl) ToModel(entity *attendance.CheckIn) *models.CheckInModel {
	if entity == nil {
		return nil
	}
	return &models.CheckInModel{
		ID: entity.ID(), SID: entity.SID(), UserID: entity.UserID(), CheckedInAt: entity.CheckedInAt(),
		CalendarDay: entity.CalendarDay(), OnTime: entity.OnTime(), CreatedAt: entity.CreatedAt(),
	}
}
