// Package attendance implements the daily check-in use case: one check-in
// per user per business-timezone calendar day, emitting an
// attendance_checkin XP entry (spec.md §4.7's emitter table; check-in
// itself is a supplemented feature, see SPEC_FULL.md §5).
package attendance

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/attendance"
	"github.com/pedalworks/repairbay/internal/domain/xpledger"
	"github.com/pedalworks/repairbay/internal/shared/biztime"
	"github.com/pedalworks/repairbay/internal/shared/config"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type CheckInCommand struct {
	UserID uint
}

type CheckInResult struct {
	CheckInID uint
	OnTime    bool
	XPAwarded int
}

type CheckInUseCase struct {
	repo      attendance.Repository
	xpRepo    xpledger.Repository
	xpConfig  config.XPConfig
	attConfig config.AttendanceConfig
	log       logger.Interface
}

func NewCheckInUseCase(repo attendance.Repository, xpRepo xpledger.Repository, xpConfig config.XPConfig, attConfig config.AttendanceConfig, log logger.Interface) *CheckInUseCase {
	return &CheckInUseCase{repo: repo, xpRepo: xpRepo, xpConfig: xpConfig, attConfig: attConfig, log: log}
}

func (uc *CheckInUseCase) Execute(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error) {
	now := biztime.NowUTC()
	day := biztime.StartOfDayUTC(now)

	if existing, err := uc.repo.FindByUserAndDay(ctx, cmd.UserID, day); err == nil && existing != nil {
		return nil, apperrors.NewConflictError(attendance.ErrAlreadyCheckedIn.Error())
	}

	onTime := uc.isOnTime(now)

	sid, err := id.NewSID(id.PrefixTelegramToken)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate id", err.Error())
	}
	checkIn := attendance.NewCheckIn(sid, cmd.UserID, now, day, onTime)
	if err := uc.repo.Create(ctx, checkIn); err != nil {
		return nil, apperrors.NewInternalError("failed to record check-in", err.Error())
	}

	xpAwarded := 0
	if onTime {
		xpSID, err := id.NewSID(id.PrefixXPLedgerEntry)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to generate id", err.Error())
		}
		entry := xpledger.NewEntry(
			xpSID, cmd.UserID, xpledger.SourceAttendanceCheckin, xpledger.ReferenceTypeAttendance,
			day.Format("2006-01-02"), uc.xpConfig.PunctualityBaseAmount,
		)
		if err := uc.xpRepo.Append(ctx, entry); err != nil {
			if err == xpledger.ErrDuplicateEmission {
				uc.log.Infow("attendance xp already emitted for this day", "user_id", cmd.UserID, "day", entry.ReferenceID())
			} else {
				return nil, apperrors.NewInternalError("failed to emit attendance xp", err.Error())
			}
		} else {
			xpAwarded = entry.Amount()
		}
	}

	return &CheckInResult{CheckInID: checkIn.ID(), OnTime: onTime, XPAwarded: xpAwarded}, nil
}

func (uc *CheckInUseCase) isOnTime(now time.Time) bool {
	local := now.In(biztime.Location())
	cutoffHour, cutoffMinute := uc.attConfig.CutoffHour, uc.attConfig.CutoffMinute
	if local.Hour() < cutoffHour {
		return true
	}
	if local.Hour() == cutoffHour && local.Minute() <= cutoffMinute {
		return true
	}
	return false
}
