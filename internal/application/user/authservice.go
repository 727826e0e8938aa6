// Package user implements C1's identity resolution and the /auth/* HTTP
// surface (spec.md §4.1, §6): login, refresh, and bearer verification.
package user

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/user"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// TokenIssuer is the port onto internal/infrastructure/auth.JWTService.
type TokenIssuer interface {
	Generate(userSID string, roles []string) (*TokenPair, error)
	Verify(tokenString string) (*Claims, error)
	Refresh(refreshTokenString string) (*TokenPair, error)
}

// TokenPair and Claims mirror infrastructure/auth's shapes so the
// application layer never imports golang-jwt directly.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type Claims struct {
	UserSID   string
	Roles     []string
	TokenType string
}

// PasswordHasher is the port onto internal/infrastructure/auth.BcryptPasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type AuthService struct {
	userRepo user.Repository
	tokens   TokenIssuer
	hasher   PasswordHasher
	log      logger.Interface
}

func NewAuthService(userRepo user.Repository, tokens TokenIssuer, hasher PasswordHasher, log logger.Interface) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, hasher: hasher, log: log}
}

type LoginCommand struct {
	Phone    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	UserSID      string
	Roles        []string
}

func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	phone, err := user.NormalizePhone(cmd.Phone)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	u, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid credentials")
	}
	if !u.IsActive() {
		return nil, apperrors.NewUnauthenticatedError("account is inactive")
	}
	if !u.HasPassword() {
		return nil, apperrors.NewUnauthenticatedError("invalid credentials")
	}
	if err := s.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid credentials")
	}

	roles := u.ActiveRoleSet().Slugs()
	pair, err := s.tokens.Generate(u.SID(), roles)
	if err != nil {
		s.log.Errorw("failed to generate token pair", "error", err)
		return nil, apperrors.NewInternalError("failed to issue tokens", err.Error())
	}

	return &LoginResult{
		AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, ExpiresIn: pair.ExpiresIn,
		UserSID: u.SID(), Roles: roles,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	pair, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid or expired refresh token")
	}
	claims, err := s.tokens.Verify(pair.AccessToken)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to verify newly issued token", err.Error())
	}
	return &LoginResult{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, ExpiresIn: pair.ExpiresIn, UserSID: claims.UserSID, Roles: claims.Roles}, nil
}

// Verify implements C1's current_user(request) for the bearer-token path:
// resolves an access token to its User, or an error if invalid/expired.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*user.User, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid or expired token")
	}
	if claims.TokenType != "access" {
		return nil, apperrors.NewUnauthenticatedError("token is not an access token")
	}
	u, err := s.userRepo.FindBySID(ctx, claims.UserSID)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("user not found")
	}
	if !u.IsActive() {
		return nil, apperrors.NewUnauthenticatedError("account is inactive")
	}
	return u, nil
}
