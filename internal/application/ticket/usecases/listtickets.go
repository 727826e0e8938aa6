package usecases

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/ticket"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type ListTicketsCommand struct {
	Filter ticket.ListFilter
}

type ListTicketsResult struct {
	Tickets    []*ticket.Ticket
	TotalCount int64
}

type ListTicketsUseCase struct {
	ticketRepo ticket.Repository
	log        logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.Repository, log logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, log: log}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, cmd ListTicketsCommand) (*ListTicketsResult, error) {
	if cmd.Filter.PerPage <= 0 {
		cmd.Filter.PerPage = 20
	}
	if cmd.Filter.PerPage > 100 {
		cmd.Filter.PerPage = 100
	}
	if cmd.Filter.Page <= 0 {
		cmd.Filter.Page = 1
	}

	tickets, total, err := uc.ticketRepo.List(ctx, cmd.Filter)
	if err != nil {
		uc.log.Errorw("list tickets failed", "error", err)
		return nil, apperrors.NewInternalError("failed to list tickets", err.Error())
	}
	return &ListTicketsResult{Tickets: tickets, TotalCount: total}, nil
}

type GetTicketUseCase struct {
	ticketRepo ticket.Repository
	log        logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.Repository, log logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{ticketRepo: ticketRepo, log: log}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	t, err := uc.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("ticket not found")
	}
	return t, nil
}
