package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type ToWaitingQCCommand struct {
	TicketID     uint
	TechnicianID uint
}

type ToWaitingQCResult struct {
	TicketID uint
	Status   string
}

// ToWaitingQCUseCase requires the ticket's current work session to be
// STOPPED before the transition fires (spec.md §4.4).
type ToWaitingQCUseCase struct {
	ticketRepo     ticket.Repository
	sessionRepo    worksession.Repository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewToWaitingQCUseCase(
	ticketRepo ticket.Repository, sessionRepo worksession.Repository, transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *ToWaitingQCUseCase {
	return &ToWaitingQCUseCase{ticketRepo: ticketRepo, sessionRepo: sessionRepo, transitionRepo: transitionRepo, txManager: txManager, log: log}
}

func (uc *ToWaitingQCUseCase) Execute(ctx context.Context, cmd ToWaitingQCCommand) (*ToWaitingQCResult, error) {
	if cmd.TicketID == 0 || cmd.TechnicianID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and technician_id are required")
	}

	var result *ToWaitingQCResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}
		if !t.IsAssignedTechnician(cmd.TechnicianID) {
			return apperrors.NewForbiddenError("caller is not the assigned technician")
		}

		if active, _ := uc.sessionRepo.FindActiveByTicket(ctx, t.ID()); active != nil {
			return apperrors.NewConflictError("current work session is not stopped")
		}

		fromStatus := t.Status()
		if err := t.ToWaitingQC(time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}

		transition := audit.NewTicketTransition(
			t.ID(), &cmd.TechnicianID, string(ticket.ActionToWaitingQC), string(fromStatus), string(t.Status()),
			"", map[string]any{"source": "api"},
		)
		if err := uc.transitionRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append transition", err.Error())
		}

		result = &ToWaitingQCResult{TicketID: t.ID(), Status: string(t.Status())}
		return nil
	})
	if err != nil {
		uc.log.Errorw("to_waiting_qc failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
