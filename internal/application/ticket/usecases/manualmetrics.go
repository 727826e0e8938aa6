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

type ManualMetricsCommand struct {
	TicketID  uint
	CallerID  uint
	FlagColor string
	XPAmount  int
}

type ManualMetricsResult struct {
	TicketID  uint
	FlagColor string
	XPAmount  int
}

// ManualMetricsUseCase implements `manual_metrics` (spec.md §4.4): mutates
// flag_color/xp_amount/is_manual only. Per spec.md §9's resolved open
// question, this never touches XP ledger emission directly — qc_pass reads
// Ticket.XPAmount() at the moment it fires, so a manager adjustment made
// before qc_pass changes the eventual qc_pass_base amount, but manual
// metrics itself writes no ledger row.
type ManualMetricsUseCase struct {
	ticketRepo     ticket.Repository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewManualMetricsUseCase(
	ticketRepo ticket.Repository, transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *ManualMetricsUseCase {
	return &ManualMetricsUseCase{ticketRepo: ticketRepo, transitionRepo: transitionRepo, txManager: txManager, log: log}
}

func (uc *ManualMetricsUseCase) Execute(ctx context.Context, cmd ManualMetricsCommand) (*ManualMetricsResult, error) {
	if cmd.TicketID == 0 || cmd.CallerID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and caller_id are required")
	}
	color, err := ticket.ParseFlagColor(cmd.FlagColor)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if cmd.XPAmount < 0 {
		return nil, apperrors.NewValidationError("xp_amount must be >= 0")
	}

	var result *ManualMetricsResult
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}

		fromStatus := t.Status()
		if err := t.ManualMetrics(color, cmd.XPAmount, time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}

		transition := audit.NewTicketTransition(
			t.ID(), &cmd.CallerID, string(ticket.ActionManualMetrics), string(fromStatus), string(fromStatus),
			"", map[string]any{"flag_color": string(color), "xp_amount": cmd.XPAmount},
		)
		if err := uc.transitionRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append transition", err.Error())
		}

		result = &ManualMetricsResult{TicketID: t.ID(), FlagColor: string(t.FlagColor()), XPAmount: t.XPAmount()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("manual_metrics failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
