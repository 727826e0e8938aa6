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

type ReviewApproveCommand struct {
	TicketID uint
	CallerID uint
}

type ReviewApproveResult struct {
	TicketID uint
	Status   string
}

type ReviewApproveUseCase struct {
	ticketRepo     ticket.Repository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewReviewApproveUseCase(
	ticketRepo ticket.Repository, transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *ReviewApproveUseCase {
	return &ReviewApproveUseCase{ticketRepo: ticketRepo, transitionRepo: transitionRepo, txManager: txManager, log: log}
}

func (uc *ReviewApproveUseCase) Execute(ctx context.Context, cmd ReviewApproveCommand) (*ReviewApproveResult, error) {
	if cmd.TicketID == 0 || cmd.CallerID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and caller_id are required")
	}

	var result *ReviewApproveResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}

		alreadyApproved := t.ApprovedByID() != nil
		fromStatus := t.Status()

		if err := t.ReviewApprove(cmd.CallerID, time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if !alreadyApproved {
			if err := uc.ticketRepo.Update(ctx, t); err != nil {
				return apperrors.NewInternalError("failed to update ticket", err.Error())
			}
			transition := audit.NewTicketTransition(
				t.ID(), &cmd.CallerID, string(ticket.ActionReviewApprove), string(fromStatus), string(t.Status()),
				"", map[string]any{"source": "api"},
			)
			if err := uc.transitionRepo.Append(ctx, transition); err != nil {
				return apperrors.NewInternalError("failed to append transition", err.Error())
			}
		}

		result = &ReviewApproveResult{TicketID: t.ID(), Status: string(t.Status())}
		return nil
	})
	if err != nil {
		uc.log.Errorw("review_approve failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
