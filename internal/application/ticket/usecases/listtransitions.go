package usecases

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// ListTicketTransitionsUseCase serves GET /tickets/{id}/transitions
// (spec.md §6, §4.6): paginated, reverse chronological, append-only read.
type ListTicketTransitionsUseCase struct {
	transitionRepo audit.TicketTransitionRepository
	log            logger.Interface
}

func NewListTicketTransitionsUseCase(transitionRepo audit.TicketTransitionRepository, log logger.Interface) *ListTicketTransitionsUseCase {
	return &ListTicketTransitionsUseCase{transitionRepo: transitionRepo, log: log}
}

func (uc *ListTicketTransitionsUseCase) Execute(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error) {
	page, perPage = normalizePaging(page, perPage)
	rows, total, err := uc.transitionRepo.ListByTicket(ctx, ticketID, page, perPage)
	if err != nil {
		uc.log.Errorw("list ticket transitions failed", "ticket_id", ticketID, "error", err)
		return nil, 0, apperrors.NewInternalError("failed to list ticket transitions", err.Error())
	}
	return rows, total, nil
}

// ListWorkSessionsUseCase serves GET /tickets/{id}/work_sessions.
type ListWorkSessionsUseCase struct {
	sessionRepo worksession.Repository
	log         logger.Interface
}

func NewListWorkSessionsUseCase(sessionRepo worksession.Repository, log logger.Interface) *ListWorkSessionsUseCase {
	return &ListWorkSessionsUseCase{sessionRepo: sessionRepo, log: log}
}

func (uc *ListWorkSessionsUseCase) Execute(ctx context.Context, ticketID uint) ([]*worksession.WorkSession, error) {
	sessions, err := uc.sessionRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		uc.log.Errorw("list work sessions failed", "ticket_id", ticketID, "error", err)
		return nil, apperrors.NewInternalError("failed to list work sessions", err.Error())
	}
	return sessions, nil
}

func normalizePaging(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
