// Package telegram bridges the Telegram Mini App's initData handshake and
// the bot's command/callback surface onto the same use cases the HTTP edge
// calls (spec.md §4.8, §6): there is exactly one ticket/session/xp engine,
// Telegram is just another edge onto it.
package telegram

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/telegramverify"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/biztime"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// TokenIssuer mirrors application/user.TokenIssuer so this package doesn't
// need to import it just for a struct shape.
type TokenIssuer interface {
	Generate(userSID string, roles []string) (*TokenPair, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginResult struct {
	// UserExists is false when the Telegram identity has no linked User —
	// the bot/mini-app should route to the access-request flow instead.
	UserExists   bool
	TelegramID   int64
	FirstName    string
	LastName     string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	UserSID      string
	Roles        []string
}

type LoginUseCase struct {
	verifier *telegramverify.Verifier
	userRepo user.Repository
	tokens   TokenIssuer
	log      logger.Interface
}

func NewLoginUseCase(verifier *telegramverify.Verifier, userRepo user.Repository, tokens TokenIssuer, log logger.Interface) *LoginUseCase {
	return &LoginUseCase{verifier: verifier, userRepo: userRepo, tokens: tokens, log: log}
}

// Execute runs spec.md §4.8's initData verification pipeline and, on
// success, either mints a token pair for an already-linked user or reports
// user_exists:false so the caller can start onboarding.
func (uc *LoginUseCase) Execute(ctx context.Context, rawInitData string) (*LoginResult, error) {
	tgUser, err := uc.verifier.Verify(ctx, rawInitData, biztime.NowUTC())
	if err != nil {
		if _, ok := err.(telegramverify.ErrReplay); ok {
			return nil, apperrors.NewRateOrReplayError("initData has already been used")
		}
		return nil, apperrors.NewUnauthenticatedError("invalid telegram initData", err.Error())
	}

	u, err := uc.userRepo.FindByTelegramID(ctx, tgUser.ID)
	if err != nil {
		return &LoginResult{
			UserExists: false, TelegramID: tgUser.ID,
			FirstName: tgUser.FirstName, LastName: tgUser.LastName, Username: tgUser.Username,
		}, nil
	}
	if !u.IsActive() {
		return nil, apperrors.NewUnauthenticatedError("account is inactive")
	}

	roles := u.ActiveRoleSet().Slugs()
	pair, err := uc.tokens.Generate(u.SID(), roles)
	if err != nil {
		uc.log.Errorw("failed to generate token pair for telegram login", "error", err)
		return nil, apperrors.NewInternalError("failed to issue tokens", err.Error())
	}

	return &LoginResult{
		UserExists: true, TelegramID: tgUser.ID,
		FirstName: tgUser.FirstName, LastName: tgUser.LastName, Username: tgUser.Username,
		AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, ExpiresIn: pair.ExpiresIn,
		UserSID: u.SID(), Roles: roles,
	}, nil
}
