// Package accessrequest orchestrates spec.md §4.2's onboarding flow: a
// Telegram user with no linked account submits a request, a MANAGER or
// SUPER_ADMIN approves or rejects it, and approval provisions (or links) the
// User record with a default TECHNICIAN role.
package accessrequest

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/accessrequest"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Notifier delivers a best-effort Telegram DM to the requester once their
// request is resolved. A delivery failure never fails the use case —
// moderation's decision is already durable once persisted.
type Notifier interface {
	NotifyAccessResolved(ctx context.Context, telegramID int64, approved bool) error
}

// RoleSyncer mirrors application/permission.Service.SyncRoles.
type RoleSyncer interface {
	SyncRoles(ctx context.Context, u *user.User) error
}

type CreateCommand struct {
	TelegramID       int64
	TelegramUsername string
	FirstName        string
	LastName         string
	Phone            string
}

type CreateUseCase struct {
	repo accessrequest.Repository
	log  logger.Interface
}

func NewCreateUseCase(repo accessrequest.Repository, log logger.Interface) *CreateUseCase {
	return &CreateUseCase{repo: repo, log: log}
}

func (uc *CreateUseCase) Execute(ctx context.Context, cmd CreateCommand) (*accessrequest.AccessRequest, error) {
	phone, err := user.NormalizePhone(cmd.Phone)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if existing, err := uc.repo.FindPendingByTelegramID(ctx, cmd.TelegramID); err == nil && existing != nil {
		return nil, apperrors.NewConflictError(accessrequest.ErrAlreadyPending.Error())
	}

	sid, err := id.NewSID(id.PrefixAccessRequest)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate id", err.Error())
	}
	req, err := accessrequest.New(sid, cmd.TelegramID, cmd.TelegramUsername, cmd.FirstName, cmd.LastName, phone)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, apperrors.NewInternalError("failed to create access request", err.Error())
	}
	return req, nil
}

type ResolveCommand struct {
	RequestID   uint
	ResolvedBy  uint
}

type ApproveUseCase struct {
	repo     accessrequest.Repository
	userRepo user.Repository
	syncer   RoleSyncer
	notifier Notifier
	log      logger.Interface
}

func NewApproveUseCase(repo accessrequest.Repository, userRepo user.Repository, syncer RoleSyncer, notifier Notifier, log logger.Interface) *ApproveUseCase {
	return &ApproveUseCase{repo: repo, userRepo: userRepo, syncer: syncer, notifier: notifier, log: log}
}

// Execute links the request to an existing user sharing its phone, or
// provisions a new one, granting the default TECHNICIAN role (spec.md §4.2)
// and binding the Telegram identity.
func (uc *ApproveUseCase) Execute(ctx context.Context, cmd ResolveCommand) (*accessrequest.AccessRequest, error) {
	req, err := uc.repo.FindByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, apperrors.NewNotFoundError(accessrequest.ErrNotFound.Error())
	}
	if !req.IsPending() && req.Status() != accessrequest.StatusApproved {
		return nil, apperrors.NewConflictError(accessrequest.ErrNotPending.Error())
	}

	u, err := uc.userRepo.FindByPhone(ctx, req.Phone())
	if err != nil {
		sid, sidErr := id.NewSID(id.PrefixUser)
		if sidErr != nil {
			return nil, apperrors.NewInternalError("failed to generate id", sidErr.Error())
		}
		u, err = user.NewUser(sid, req.Phone())
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		if _, err := u.AssignRole(authorization.RoleTechnician); err != nil {
			return nil, apperrors.NewInternalError("failed to assign default role", err.Error())
		}
		if err := u.BindTelegram(req.TelegramID(), req.TelegramUsername()); err != nil {
			return nil, apperrors.NewInternalError("failed to bind telegram identity", err.Error())
		}
		if err := uc.userRepo.Create(ctx, u); err != nil {
			return nil, apperrors.NewInternalError("failed to create user", err.Error())
		}
	} else {
		if _, err := u.AssignRole(authorization.RoleTechnician); err != nil {
			return nil, apperrors.NewInternalError("failed to assign default role", err.Error())
		}
		if err := u.BindTelegram(req.TelegramID(), req.TelegramUsername()); err != nil {
			return nil, apperrors.NewConflictError(err.Error())
		}
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return nil, apperrors.NewInternalError("failed to update user", err.Error())
		}
	}

	if err := req.Approve(cmd.ResolvedBy, u.ID()); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}
	if err := uc.repo.Update(ctx, req); err != nil {
		return nil, apperrors.NewInternalError("failed to persist approval", err.Error())
	}

	if err := uc.syncer.SyncRoles(ctx, u); err != nil {
		uc.log.Errorw("failed to sync roles into enforcer", "user_id", u.ID(), "error", err)
	}
	if uc.notifier != nil {
		if err := uc.notifier.NotifyAccessResolved(ctx, req.TelegramID(), true); err != nil {
			uc.log.Warnw("failed to notify requester of approval", "telegram_id", req.TelegramID(), "error", err)
		}
	}

	return req, nil
}

type RejectUseCase struct {
	repo     accessrequest.Repository
	notifier Notifier
	log      logger.Interface
}

func NewRejectUseCase(repo accessrequest.Repository, notifier Notifier, log logger.Interface) *RejectUseCase {
	return &RejectUseCase{repo: repo, notifier: notifier, log: log}
}

func (uc *RejectUseCase) Execute(ctx context.Context, cmd ResolveCommand) (*accessrequest.AccessRequest, error) {
	req, err := uc.repo.FindByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, apperrors.NewNotFoundError(accessrequest.ErrNotFound.Error())
	}
	if err := req.Reject(cmd.ResolvedBy); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}
	if err := uc.repo.Update(ctx, req); err != nil {
		return nil, apperrors.NewInternalError("failed to persist rejection", err.Error())
	}
	if uc.notifier != nil {
		if err := uc.notifier.NotifyAccessResolved(ctx, req.TelegramID(), false); err != nil {
			uc.log.Warnw("failed to notify requester of rejection", "telegram_id", req.TelegramID(), "error", err)
		}
	}
	return req, nil
}

type ListCommand struct {
	Status  accessrequest.Status
	Page    int
	PerPage int
}

type ListResult struct {
	Requests []*accessrequest.AccessRequest
	Total    int64
	Page     int
	PerPage  int
}

type ListUseCase struct {
	repo accessrequest.Repository
}

func NewListUseCase(repo accessrequest.Repository) *ListUseCase {
	return &ListUseCase{repo: repo}
}

func (uc *ListUseCase) Execute(ctx context.Context, cmd ListCommand) (*ListResult, error) {
	page, perPage := cmd.Page, cmd.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	requests, total, err := uc.repo.List(ctx, cmd.Status, page, perPage)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list access requests", err.Error())
	}
	return &ListResult{Requests: requests, Total: total, Page: page, PerPage: perPage}, nil
}
