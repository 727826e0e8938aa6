package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID     uint
	TechnicianID uint
	CallerID     uint
}

type AssignTicketResult struct {
	TicketID     uint
	Status       string
	TechnicianID uint
}

// AssignTicketUseCase implements the `assign` transition. spec.md §4.4
// allows assign to be combined with review_approve in one call; when the
// ticket is still under_review, this use case performs review_approve
// first and records both transitions individually, in order (spec.md §8
// scenario S2).
type AssignTicketUseCase struct {
	ticketRepo     ticket.Repository
	userRepo       user.Repository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.Repository, userRepo user.Repository, transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo, userRepo: userRepo, transitionRepo: transitionRepo, txManager: txManager, log: log,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error) {
	if cmd.TicketID == 0 || cmd.TechnicianID == 0 || cmd.CallerID == 0 {
		return nil, apperrors.NewValidationError("ticket_id, technician_id and caller_id are required")
	}

	var result *AssignTicketResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		technician, err := uc.userRepo.FindByID(ctx, cmd.TechnicianID)
		if err != nil {
			return apperrors.NewNotFoundError("technician not found")
		}
		if !technician.HasActiveRole(authorization.RoleTechnician) {
			return apperrors.NewConflictError("target user does not have an active TECHNICIAN role")
		}

		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}

		now := time.Now()
		if t.Status() == ticket.StatusUnderReview {
			fromStatus := t.Status()
			if err := t.ReviewApprove(cmd.CallerID, now); err != nil {
				return apperrors.NewConflictError(err.Error())
			}
			if err := uc.ticketRepo.Update(ctx, t); err != nil {
				return apperrors.NewInternalError("failed to update ticket", err.Error())
			}
			reviewTransition := audit.NewTicketTransition(
				t.ID(), &cmd.CallerID, string(ticket.ActionReviewApprove), string(fromStatus), string(t.Status()),
				"", map[string]any{"source": "api", "combined_with": "assign"},
			)
			if err := uc.transitionRepo.Append(ctx, reviewTransition); err != nil {
				return apperrors.NewInternalError("failed to append transition", err.Error())
			}
		}

		fromStatus := t.Status()
		if err := t.Assign(cmd.TechnicianID, now); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}
		assignTransition := audit.NewTicketTransition(
			t.ID(), &cmd.CallerID, string(ticket.ActionAssign), string(fromStatus), string(t.Status()),
			"", map[string]any{"source": "api", "technician_id": cmd.TechnicianID},
		)
		if err := uc.transitionRepo.Append(ctx, assignTransition); err != nil {
			return apperrors.NewInternalError("failed to append transition", err.Error())
		}

		result = &AssignTicketResult{TicketID: t.ID(), Status: string(t.Status()), TechnicianID: cmd.TechnicianID}
		return nil
	})
	if err != nil {
		uc.log.Errorw("assign failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
