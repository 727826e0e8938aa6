// Package xpledger exposes C7's read projections over the append-only XP
// ledger (spec.md §4.7): a user reading their own history, and a MANAGER/
// SUPER_ADMIN reading any user's.
package xpledger

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/xpledger"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
)

type ListCommand struct {
	// UserID, when nil, lists entries across all users (manager/admin view).
	UserID  *uint
	Page    int
	PerPage int
}

type ListResult struct {
	Entries []*xpledger.Entry
	Total   int64
	Page    int
	PerPage int
}

type ListUseCase struct {
	repo xpledger.Repository
}

func NewListUseCase(repo xpledger.Repository) *ListUseCase {
	return &ListUseCase{repo: repo}
}

// Execute implements both xp.read_self (caller passes their own ID) and
// xp.read_any (caller passes any user's ID, or nil for the full ledger) —
// the capability check happens at the handler via application/permission,
// not here.
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

	var (
		entries []*xpledger.Entry
		total   int64
		err     error
	)
	if cmd.UserID != nil {
		entries, total, err = uc.repo.ListByUser(ctx, *cmd.UserID, page, perPage)
	} else {
		entries, total, err = uc.repo.List(ctx, nil, page, perPage)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list xp ledger entries", err.Error())
	}
	return &ListResult{Entries: entries, Total: total, Page: page, PerPage: perPage}, nil
}

type SummaryResult struct {
	UserID uint
	Total  int
}

type SummaryUseCase struct {
	repo xpledger.Repository
}

func NewSummaryUseCase(repo xpledger.Repository) *SummaryUseCase {
	return &SummaryUseCase{repo: repo}
}

func (uc *SummaryUseCase) Execute(ctx context.Context, userID uint) (*SummaryResult, error) {
	total, err := uc.repo.SumByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sum xp ledger", err.Error())
	}
	return &SummaryResult{UserID: userID, Total: total}, nil
}
