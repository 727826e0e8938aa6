package user

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// RoleSyncer mirrors application/permission.Service.SyncRoles without
// creating an import cycle between the user and permission packages.
type RoleSyncer interface {
	SyncRoles(ctx context.Context, u *user.User) error
}

type AssignRoleCommand struct {
	UserID uint
	Role   string
}

type AssignRoleUseCase struct {
	userRepo user.Repository
	syncer   RoleSyncer
	log      logger.Interface
}

func NewAssignRoleUseCase(userRepo user.Repository, syncer RoleSyncer, log logger.Interface) *AssignRoleUseCase {
	return &AssignRoleUseCase{userRepo: userRepo, syncer: syncer, log: log}
}

func (uc *AssignRoleUseCase) Execute(ctx context.Context, cmd AssignRoleCommand) (*user.User, error) {
	role := authorization.Role(cmd.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("unknown role", cmd.Role)
	}

	u, err := uc.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if _, err := u.AssignRole(role); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, apperrors.NewInternalError("failed to persist role assignment", err.Error())
	}
	if err := uc.syncer.SyncRoles(ctx, u); err != nil {
		uc.log.Errorw("failed to sync roles into enforcer", "user_id", cmd.UserID, "error", err)
	}
	return u, nil
}

type RevokeRoleUseCase struct {
	userRepo user.Repository
	syncer   RoleSyncer
	log      logger.Interface
}

func NewRevokeRoleUseCase(userRepo user.Repository, syncer RoleSyncer, log logger.Interface) *RevokeRoleUseCase {
	return &RevokeRoleUseCase{userRepo: userRepo, syncer: syncer, log: log}
}

func (uc *RevokeRoleUseCase) Execute(ctx context.Context, cmd AssignRoleCommand) (*user.User, error) {
	role := authorization.Role(cmd.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("unknown role", cmd.Role)
	}

	u, err := uc.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	u.RevokeRole(role)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, apperrors.NewInternalError("failed to persist role revocation", err.Error())
	}
	if err := uc.syncer.SyncRoles(ctx, u); err != nil {
		uc.log.Errorw("failed to sync roles into enforcer", "user_id", cmd.UserID, "error", err)
	}
	return u, nil
}

type ListUsersCommand struct {
	Role    string
	Page    int
	PerPage int
}

type ListUsersResult struct {
	Users   []*user.User
	Total   int64
	Page    int
	PerPage int
}

type ListUsersUseCase struct {
	userRepo user.Repository
}

func NewListUsersUseCase(userRepo user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, cmd ListUsersCommand) (*ListUsersResult, error) {
	page, perPage := normalizePaging(cmd.Page, cmd.PerPage)

	var (
		users []*user.User
		total int64
		err   error
	)
	if cmd.Role != "" {
		users, total, err = uc.userRepo.ListByRole(ctx, cmd.Role, page, perPage)
	} else {
		users, total, err = uc.userRepo.List(ctx, page, perPage)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err.Error())
	}
	return &ListUsersResult{Users: users, Total: total, Page: page, PerPage: perPage}, nil
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
