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

// StopSessionUseCase implements `stop` (spec.md §4.5). Stopping is
// idempotent: stopping an already-STOPPED session returns its current
// state without emitting a second transition (spec.md §7's "re-stopping a
// STOPPED session returns current state").
type StopSessionUseCase struct {
	sessionRepo      worksession.Repository
	ticketRepo       ticket.Repository
	sessionTransRepo audit.WorkSessionTransitionRepository
	txManager        *db.TransactionManager
	log              logger.Interface
}

func NewStopSessionUseCase(
	sessionRepo worksession.Repository, ticketRepo ticket.Repository,
	sessionTransRepo audit.WorkSessionTransitionRepository, txManager *db.TransactionManager, log logger.Interface,
) *StopSessionUseCase {
	return &StopSessionUseCase{sessionRepo: sessionRepo, ticketRepo: ticketRepo, sessionTransRepo: sessionTransRepo, txManager: txManager, log: log}
}

func (uc *StopSessionUseCase) Execute(ctx context.Context, cmd SessionCommand) (*SessionResult, error) {
	var result *SessionResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		session, err := uc.sessionRepo.FindActiveByTicket(ctx, cmd.TicketID)
		if err != nil || session == nil {
			// No non-stopped session: fall back to the caller's most recent
			// (necessarily STOPPED) session so a re-stop returns its state.
			session = nil
			sessions, listErr := uc.sessionRepo.ListByTicket(ctx, cmd.TicketID)
			for _, s := range sessions {
				if listErr == nil && s.TechnicianID() == cmd.TechnicianID && (session == nil || s.ID() > session.ID()) {
					session = s
				}
			}
			if session == nil {
				return apperrors.NewNotFoundError("no active work session for this ticket")
			}
		}
		if session.TechnicianID() != cmd.TechnicianID {
			return apperrors.NewForbiddenError("caller is not the session's technician")
		}

		fromStatus := session.Status()
		wasAlreadyStopped := fromStatus == worksession.StatusStopped
		segment, err := session.Stop()
		if err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if !wasAlreadyStopped {
			if err := uc.sessionRepo.Update(ctx, session); err != nil {
				return apperrors.NewInternalError("failed to update session", err.Error())
			}

			transition := audit.NewWorkSessionTransition(
				session.ID(), cmd.TicketID, &cmd.TechnicianID, audit.WorkSessionActionStopped,
				string(fromStatus), string(session.Status()),
				map[string]any{"accumulated_seconds": session.AccumulatedSeconds(), "segment_seconds": segment},
			)
			if err := uc.sessionTransRepo.Append(ctx, transition); err != nil {
				return apperrors.NewInternalError("failed to append session transition", err.Error())
			}

			totalSeconds, err := uc.sessionRepo.SumStoppedAccumulatedSeconds(ctx, cmd.TicketID)
			if err != nil {
				return apperrors.NewInternalError("failed to sum session durations", err.Error())
			}
			t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
			if err != nil {
				return apperrors.NewInternalError("failed to load ticket", err.Error())
			}
			t.RecomputeTotalDuration(int(totalSeconds/60), time.Now())
			if err := uc.ticketRepo.Update(ctx, t); err != nil {
				return apperrors.NewInternalError("failed to update ticket duration", err.Error())
			}
		}

		result = &SessionResult{SessionID: session.ID(), Status: string(session.Status()), AccumulatedMinutes: session.AccumulatedMinutes()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("stop session failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
