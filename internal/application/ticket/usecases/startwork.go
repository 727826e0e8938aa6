package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type StartWorkCommand struct {
	TicketID     uint
	TechnicianID uint
}

type StartWorkResult struct {
	TicketID  uint
	Status    string
	SessionID uint
}

// StartWorkUseCase implements `start_work` (spec.md §4.4) together with the
// WorkSession `start` transition it triggers (spec.md §4.5) — the two are
// one atomic operation, as the ticket cannot be in_progress without an open
// session.
type StartWorkUseCase struct {
	ticketRepo      ticket.Repository
	sessionRepo     worksession.Repository
	transitionRepo  audit.TicketTransitionRepository
	sessionTransRepo audit.WorkSessionTransitionRepository
	txManager       *db.TransactionManager
	log             logger.Interface
}

func NewStartWorkUseCase(
	ticketRepo ticket.Repository, sessionRepo worksession.Repository,
	transitionRepo audit.TicketTransitionRepository, sessionTransRepo audit.WorkSessionTransitionRepository,
	txManager *db.TransactionManager, log logger.Interface,
) *StartWorkUseCase {
	return &StartWorkUseCase{
		ticketRepo: ticketRepo, sessionRepo: sessionRepo, transitionRepo: transitionRepo,
		sessionTransRepo: sessionTransRepo, txManager: txManager, log: log,
	}
}

func (uc *StartWorkUseCase) Execute(ctx context.Context, cmd StartWorkCommand) (*StartWorkResult, error) {
	if cmd.TicketID == 0 || cmd.TechnicianID == 0 {
		return nil, apperrors.NewValidationError("ticket_id and technician_id are required")
	}

	var result *StartWorkResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		t, err := uc.ticketRepo.FindByIDForUpdate(ctx, cmd.TicketID)
		if err != nil {
			return apperrors.NewNotFoundError("ticket not found")
		}
		if !t.IsAssignedTechnician(cmd.TechnicianID) {
			return apperrors.NewForbiddenError("caller is not the assigned technician")
		}

		if existing, _ := uc.sessionRepo.FindActiveByTicket(ctx, t.ID()); existing != nil {
			return apperrors.NewConflictError("ticket already has a non-stopped work session")
		}
		if existing, _ := uc.sessionRepo.FindActiveByTechnician(ctx, cmd.TechnicianID); existing != nil {
			return apperrors.NewConflictError("technician already has a non-stopped work session")
		}

		fromStatus := t.Status()
		if err := t.StartWork(time.Now()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			return apperrors.NewInternalError("failed to update ticket", err.Error())
		}

		sid, err := id.NewSID(id.PrefixWorkSession)
		if err != nil {
			return apperrors.NewInternalError("failed to generate session id", err.Error())
		}
		session := worksession.NewWorkSession(sid, t.ID(), cmd.TechnicianID)
		if err := uc.sessionRepo.Create(ctx, session); err != nil {
			return apperrors.NewConflictError("a concurrent session start won the race")
		}

		ticketTransition := audit.NewTicketTransition(
			t.ID(), &cmd.TechnicianID, string(ticket.ActionStartWork), string(fromStatus), string(t.Status()),
			"", map[string]any{"source": "api", "session_id": session.ID()},
		)
		if err := uc.transitionRepo.Append(ctx, ticketTransition); err != nil {
			return apperrors.NewInternalError("failed to append ticket transition", err.Error())
		}

		sessionTransition := audit.NewWorkSessionTransition(
			session.ID(), t.ID(), &cmd.TechnicianID, audit.WorkSessionActionStarted, "", string(worksession.StatusRunning),
			map[string]any{"accumulated_seconds": int64(0), "segment_seconds": int64(0)},
		)
		if err := uc.sessionTransRepo.Append(ctx, sessionTransition); err != nil {
			return apperrors.NewInternalError("failed to append session transition", err.Error())
		}

		result = &StartWorkResult{TicketID: t.ID(), Status: string(t.Status()), SessionID: session.ID()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("start_work failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
