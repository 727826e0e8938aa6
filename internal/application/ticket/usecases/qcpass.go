package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/domain/xpledger"
	"github.com/pedalworks/repairbay/internal/shared/config"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type QCPassCommand struct {
	TicketID uint
	CallerID uint
}

type QCPassResult struct {
	TicketID             uint
	Status               string
	TotalDurationMinutes int
}

// QCPassUseCase implements `qc_pass` (spec.md §4.4): freezes the ticket's
// duration from its stopped work sessions, restores the item to READY, and
// emits qc_pass_base XP plus, when the ticket never visited rework,
// qc_first_pass_bonus. Idempotent: a ticket already done returns its
// current state without emitting a second round of XP (spec.md §4.4, §8
// scenario S6) — both via the ticket's own no-op guard and the ledger's
// idempotency key as a second line of defense.
type QCPassUseCase struct {
	ticketRepo      ticket.Repository
	sessionRepo     worksession.Repository
	itemRepo        inventory.ItemRepository
	transitionRepo  audit.TicketTransitionRepository
	ticketAuditRepo audit.TicketTransitionRepository
	ledgerRepo      xpledger.Repository
	xpCfg           config.XPConfig
	txManager       *db.TransactionManager
	log             logger.Interface
}

func NewQCPassUseCase(
	ticketRepo ticket.Repository, sessionRepo worksession.Repository, itemRepo inventory.ItemRepository,
	transitionRepo audit.TicketTransitionRepository, ledgerRepo xpledger.Repository, xpCfg config.XPConfig,
	txManager *db.TransactionManager, log logger.Interface,
) *QCPassUseCase {
	return &QCPassUseCase{
		ticketRepo: ticketRepo, sessionRepo: sessionRepo, itemRepo: itemRepo,
		transitionRepo: transitionRepo, ticketAuditRepo: transitionRepo, ledgerRepo: ledgerRepo,
		xpCfg: xpCfg, txManager: txManager, log: log,
	}
}

func (uc *QCPassUseCase) Execute(ctx context.Context, cmd QCPassCommand) (*QCPassResult, error) {
	if cmd.TicketID == 0 || cmd.CallerID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and caller_id are required")
	}

	var result *QCPassResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}

		if t.Status() == ticket.StatusDone {
			result = &QCPassResult{TicketID: t.ID(), Status: string(t.Status()), TotalDurationMinutes: t.TotalDurationMinutes()}
			return nil
		}

		fromStatus := t.Status()
		totalSeconds, err := uc.sessionRepo.SumStoppedAccumulatedSeconds(ctx, t.ID())
		if err != nil {
			return apperrors.NewInternalError("failed to sum session durations", err.Error())
		}
		totalMinutes := int(totalSeconds / 60)

		if err := t.QCPass(totalMinutes, time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}

		item, err := uc.itemRepo.FindByID(ctx, t.ItemID())
		if err != nil {
			return apperrors.NewInternalError("failed to load inventory item", err.Error())
		}
		item.MarkReady()
		if err := uc.itemRepo.Update(ctx, item); err != nil {
			return apperrors.NewInternalError("failed to update item status", err.Error())
		}

		transition := audit.NewTicketTransition(
			t.ID(), &cmd.CallerID, string(ticket.ActionQCPass), string(fromStatus), string(t.Status()),
			"", map[string]any{"source": "api"},
		)
		if err := uc.transitionRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append transition", err.Error())
		}

		if err := uc.emitXP(ctx, t); err != nil {
			return err
		}

		result = &QCPassResult{TicketID: t.ID(), Status: string(t.Status()), TotalDurationMinutes: t.TotalDurationMinutes()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("qc_pass failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}

func (uc *QCPassUseCase) emitXP(ctx context.Context, t *ticket.Ticket) error {
	technicianID := t.TechnicianID()
	if technicianID == nil {
		return apperrors.NewInternalError("ticket has no assigned technician at qc_pass")
	}

	baseSID, err := id.NewSID(id.PrefixXPLedgerEntry)
	if err != nil {
		return apperrors.NewInternalError("failed to generate xp entry id", err.Error())
	}
	referenceID := ticketReferenceID(t.ID())
	baseEntry := xpledger.NewEntry(baseSID, *technicianID, xpledger.SourceQCPassBase, xpledger.ReferenceTypeTicket, referenceID, t.XPAmount())
	if err := uc.ledgerRepo.Append(ctx, baseEntry); err != nil {
		if err == xpledger.ErrDuplicateEmission {
			uc.log.Infow("qc_pass_base already emitted, skipping", "ticket_id", t.ID())
		} else {
			return apperrors.NewInternalError("failed to append qc_pass_base xp entry", err.Error())
		}
	}

	everReworked, err := uc.ticketAuditRepo.EverReworked(ctx, t.ID())
	if err != nil {
		return apperrors.NewInternalError("failed to inspect ticket history", err.Error())
	}
	if !everReworked {
		bonusSID, err := id.NewSID(id.PrefixXPLedgerEntry)
		if err != nil {
			return apperrors.NewInternalError("failed to generate xp entry id", err.Error())
		}
		bonusEntry := xpledger.NewEntry(bonusSID, *technicianID, xpledger.SourceQCFirstPassBonus, xpledger.ReferenceTypeTicket, referenceID, uc.xpCfg.FirstPassBonusAmount)
		if err := uc.ledgerRepo.Append(ctx, bonusEntry); err != nil {
			if err == xpledger.ErrDuplicateEmission {
				uc.log.Infow("qc_first_pass_bonus already emitted, skipping", "ticket_id", t.ID())
			} else {
				return apperrors.NewInternalError("failed to append qc_first_pass_bonus xp entry", err.Error())
			}
		}
	}
	return nil
}
