// Package usecases implements the WorkSession timer's pause/resume/stop
// transitions (spec.md §4.5) — start_work lives alongside the ticket
// engine in internal/application/ticket/usecases since it also moves the
// ticket to in_progress.
package usecases

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type SessionCommand struct {
	TicketID     uint
	TechnicianID uint
}

type SessionResult struct {
	SessionID          uint
	Status             string
	AccumulatedMinutes int
}

type PauseSessionUseCase struct {
	sessionRepo      worksession.Repository
	sessionTransRepo audit.WorkSessionTransitionRepository
	txManager        *db.TransactionManager
	log              logger.Interface
}

func NewPauseSessionUseCase(sessionRepo worksession.Repository, sessionTransRepo audit.WorkSessionTransitionRepository, txManager *db.TransactionManager, log logger.Interface) *PauseSessionUseCase {
	return &PauseSessionUseCase{sessionRepo: sessionRepo, sessionTransRepo: sessionTransRepo, txManager: txManager, log: log}
}

func (uc *PauseSessionUseCase) Execute(ctx context.Context, cmd SessionCommand) (*SessionResult, error) {
	var result *SessionResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		session, err := uc.sessionRepo.FindActiveByTicket(ctx, cmd.TicketID)
		if err != nil || session == nil {
			return apperrors.NewNotFoundError("no active work session for this ticket")
		}
		if session.TechnicianID() != cmd.TechnicianID {
			return apperrors.NewForbiddenError("caller is not the session's technician")
		}

		fromStatus := session.Status()
		segment, err := session.Pause()
		if err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.sessionRepo.Update(ctx, session); err != nil {
			return apperrors.NewInternalError("failed to update session", err.Error())
		}

		transition := audit.NewWorkSessionTransition(
			session.ID(), cmd.TicketID, &cmd.TechnicianID, audit.WorkSessionActionPaused,
			string(fromStatus), string(session.Status()),
			map[string]any{"accumulated_seconds": session.AccumulatedSeconds(), "segment_seconds": segment},
		)
		if err := uc.sessionTransRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append session transition", err.Error())
		}

		result = &SessionResult{SessionID: session.ID(), Status: string(session.Status()), AccumulatedMinutes: session.AccumulatedMinutes()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("pause session failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}

type ResumeSessionUseCase struct {
	sessionRepo      worksession.Repository
	sessionTransRepo audit.WorkSessionTransitionRepository
	txManager        *db.TransactionManager
	log              logger.Interface
}

func NewResumeSessionUseCase(sessionRepo worksession.Repository, sessionTransRepo audit.WorkSessionTransitionRepository, txManager *db.TransactionManager, log logger.Interface) *ResumeSessionUseCase {
	return &ResumeSessionUseCase{sessionRepo: sessionRepo, sessionTransRepo: sessionTransRepo, txManager: txManager, log: log}
}

func (uc *ResumeSessionUseCase) Execute(ctx context.Context, cmd SessionCommand) (*SessionResult, error) {
	var result *SessionResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		session, err := uc.sessionRepo.FindActiveByTicket(ctx, cmd.TicketID)
		if err != nil || session == nil {
			return apperrors.NewNotFoundError("no active work session for this ticket")
		}
		if session.TechnicianID() != cmd.TechnicianID {
			return apperrors.NewForbiddenError("caller is not the session's technician")
		}

		fromStatus := session.Status()
		if err := session.Resume(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.sessionRepo.Update(ctx, session); err != nil {
			return apperrors.NewInternalError("failed to update session", err.Error())
		}

		transition := audit.NewWorkSessionTransition(
			session.ID(), cmd.TicketID, &cmd.TechnicianID, audit.WorkSessionActionResumed,
			string(fromStatus), string(session.Status()),
			map[string]any{"accumulated_seconds": session.AccumulatedSeconds(), "segment_seconds": int64(0)},
		)
		if err := uc.sessionTransRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append session transition", err.Error())
		}

		result = &SessionResult{SessionID: session.ID(), Status: string(session.Status()), AccumulatedMinutes: session.AccumulatedMinutes()}
		return nil
	})
	if err != nil {
		uc.log.Errorw("resume session failed", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	return result, nil
}
