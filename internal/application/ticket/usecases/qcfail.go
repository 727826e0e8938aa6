package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type QCFailCommand struct {
	TicketID uint
	CallerID uint
	Note     string
}

type QCFailResult struct {
	TicketID uint
	Status   string
}

// QCFailUseCase implements `qc_fail` (spec.md §4.4): no XP emission, and
// the resulting rework visit is what the first-pass bonus check in
// qcpass.go looks for.
type QCFailUseCase struct {
	ticketRepo     ticket.Repository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewQCFailUseCase(
	ticketRepo ticket.Repository, transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *QCFailUseCase {
	return &QCFailUseCase{ticketRepo: ticketRepo, transitionRepo: transitionRepo, txManager: txManager, log: log}
}

func (uc *QCFailUseCase) Execute(ctx context.Context, cmd QCFailCommand) (*QCFailResult, error) {
	if cmd.TicketID == 0 || cmd.CallerID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and caller_id are required")
	}

	var result *QCFailResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}

		fromStatus := t.Status()
		if err := t.QCFail(time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}

		transition := audit.NewTicketTransition(
			t.ID(), &cmd.CallerID, string(ticket.ActionQCFail), string(fromStatus), string(t.Status()),
			cmd.Note, map[string]any{"source": "api"},
		)
		if err := uc.transitionRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append transition", err.Error())
		}

		result = &QCFailResult{TicketID: t.ID(), Status: string(t.Status())}
		return nil
	})
	if err != nil {
		uc.log.Errorw("qc_fail failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
