// Package mappers converts between domain entities and gorm persistence
// models, grounded on the teacher's internal/infrastructure/persistence/mappers.
package mappers

import (
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
)

type UserMapper interface {
	ToEntity(model *models.UserModel, roleModels []*models.RoleAssignmentModel) *user.User
	ToModel(entity *user.User) *models.UserModel
	ToRoleModels(userID uint, entity *user.User) []*models.RoleAssignmentModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper { return &UserMapperImpl{} }

func (m *UserMapperImpl) ToEntity(model *models.UserModel, roleModels []*models.RoleAssignmentModel) *user.User {
	if model == nil {
		return nil
	}

	roles := make([]*user.RoleAssignment, 0, len(roleModels))
	for _, rm := range roleModels {
		roles = append(roles, user.ReconstructRoleAssignment(rm.ID, authorization.Role(rm.Role), rm.IsActive, rm.AssignedAt))
	}

	return user.ReconstructUser(
		model.ID, model.SID, model.Phone, model.TelegramID, model.TelegramUsername, model.PasswordHash,
		model.IsActive, roles, model.CreatedAt, model.UpdatedAt, gormDeletedAtPtr(model.DeletedAt),
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	model := &models.UserModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		Phone:            entity.Phone(),
		TelegramID:       entity.TelegramID(),
		TelegramUsername: entity.TelegramUsername(),
		PasswordHash:     entity.PasswordHash(),
		IsActive:         entity.IsActive(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
	if dt := entity.DeletedAt(); dt != nil {
		model.DeletedAt = softDeletedAt(*dt)
	}
	return model
}

func (m *UserMapperImpl) ToRoleModels(userID uint, entity *user.User) []*models.RoleAssignmentModel {
	roles := entity.Roles()
	out := make([]*models.RoleAssignmentModel, 0, len(roles))
	for _, ra := range roles {
		out = append(out, &models.RoleAssignmentModel{
			ID: ra.ID(), UserID: userID, Role: string(ra.Role()), IsActive: ra.IsActive(), AssignedAt: ra.AssignedAt(),
		})
	}
	return out
}
