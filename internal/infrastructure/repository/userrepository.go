// Package repository holds the gorm-backed implementations of every domain
// Repository interface, grounded on the teacher's internal/infrastructure/repository.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/mappers"
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
	sharedDB "github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// UserRepositoryDDD is the gorm-backed implementation of user.Repository.
type UserRepositoryDDD struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	tx     *sharedDB.TransactionManager
	log    logger.Interface
}

func NewUserRepositoryDDD(db *gorm.DB, tx *sharedDB.TransactionManager, log logger.Interface) user.Repository {
	return &UserRepositoryDDD{db: db, mapper: mappers.NewUserMapper(), tx: tx, log: log}
}

func (r *UserRepositoryDDD) conn(ctx context.Context) *gorm.DB {
	return sharedDB.GetTxFromContext(ctx, r.db)
}

func (r *UserRepositoryDDD) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.SetID(model.ID)

	for _, rm := range r.mapper.ToRoleModels(model.ID, u) {
		if err := r.conn(ctx).Create(rm).Error; err != nil {
			return fmt.Errorf("failed to create role assignment: %w", err)
		}
	}
	return nil
}

func (r *UserRepositoryDDD) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	// Roles are reconciled wholesale: upsert every in-memory assignment,
	// relying on the id field to distinguish insert from update.
	for _, rm := range r.mapper.ToRoleModels(model.ID, u) {
		if rm.ID == 0 {
			if err := r.conn(ctx).Create(rm).Error; err != nil {
				return fmt.Errorf("failed to create role assignment: %w", err)
			}
			continue
		}
		if err := r.conn(ctx).Save(rm).Error; err != nil {
			return fmt.Errorf("failed to update role assignment: %w", err)
		}
	}
	return nil
}

func (r *UserRepositoryDDD) findWithRoles(ctx context.Context, query func(*gorm.DB) *gorm.DB) (*user.User, error) {
	var model models.UserModel
	if err := query(r.conn(ctx)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var roleModels []*models.RoleAssignmentModel
	if err := r.conn(ctx).Where("user_id = ?", model.ID).Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	return r.mapper.ToEntity(&model, roleModels), nil
}

func (r *UserRepositoryDDD) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findWithRoles(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) })
}

func (r *UserRepositoryDDD) FindBySID(ctx context.Context, sid string) (*user.User, error) {
	return r.findWithRoles(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("sid = ?", sid) })
}

func (r *UserRepositoryDDD) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.findWithRoles(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("phone = ?", phone) })
}

func (r *UserRepositoryDDD) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	return r.findWithRoles(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("telegram_id = ?", telegramID) })
}

func (r *UserRepositoryDDD) List(ctx context.Context, page, perPage int) ([]*user.User, int64, error) {
	var userModels []*models.UserModel
	var total int64

	query := r.conn(ctx).Model(&models.UserModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := query.Scopes(sharedDB.Paginate(page, perPage)).Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return r.hydrateAll(ctx, userModels, total)
}

func (r *UserRepositoryDDD) ListByRole(ctx context.Context, role string, page, perPage int) ([]*user.User, int64, error) {
	var userModels []*models.UserModel
	var total int64

	query := r.conn(ctx).Model(&models.UserModel{}).
		Joins("JOIN role_assignments ON role_assignments.user_id = users.id").
		Where("role_assignments.role = ? AND role_assignments.is_active = ?", role, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	if err := query.Scopes(sharedDB.Paginate(page, perPage)).Order("users.created_at DESC").Find(&userModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users by role: %w", err)
	}

	return r.hydrateAll(ctx, userModels, total)
}

func (r *UserRepositoryDDD) hydrateAll(ctx context.Context, userModels []*models.UserModel, total int64) ([]*user.User, int64, error) {
	ids := make([]uint, 0, len(userModels))
	for _, m := range userModels {
		ids = append(ids, m.ID)
	}

	var roleModels []*models.RoleAssignmentModel
	if len(ids) > 0 {
		if err := r.conn(ctx).Where("user_id IN ?", ids).Find(&roleModels).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to load role assignments: %w", err)
		}
	}
	rolesByUser := make(map[uint][]*models.RoleAssignmentModel)
	for _, rm := range roleModels {
		rolesByUser[rm.UserID] = append(rolesByUser[rm.UserID], rm)
	}

	out := make([]*user.User, 0, len(userModels))
	for _, m := range userModels {
		out = append(out, r.mapper.ToEntity(m, rolesByUser[m.ID]))
	}
	return out, total, nil
}

func (r *UserRepositoryDDD) SoftDelete(ctx context.Context, id uint) error {
	result := r.conn(ctx).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to soft delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
