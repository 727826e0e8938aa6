package auth

import (
	appuser "github.com/pedalworks/repairbay/internal/application/user"
	apptelegram "github.com/pedalworks/repairbay/internal/application/telegram"
)

// TokenIssuerAdapter wraps JWTService to satisfy the application layer's
// TokenIssuer ports (application/user and application/telegram each declare
// their own, to avoid a dependency between those two packages).
type TokenIssuerAdapter struct {
	jwt *JWTService
}

func NewTokenIssuerAdapter(jwt *JWTService) *TokenIssuerAdapter {
	return &TokenIssuerAdapter{jwt: jwt}
}

func toAppUserPair(p *TokenPair) *appuser.TokenPair {
	return &appuser.TokenPair{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, ExpiresIn: p.ExpiresIn}
}

func toAppTelegramPair(p *TokenPair) *apptelegram.TokenPair {
	return &apptelegram.TokenPair{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, ExpiresIn: p.ExpiresIn}
}

func (a *TokenIssuerAdapter) Generate(userSID string, roles []string) (*appuser.TokenPair, error) {
	pair, err := a.jwt.Generate(userSID, roles)
	if err != nil {
		return nil, err
	}
	return toAppUserPair(pair), nil
}

func (a *TokenIssuerAdapter) Verify(tokenString string) (*appuser.Claims, error) {
	claims, err := a.jwt.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return &appuser.Claims{UserSID: claims.UserSID, Roles: claims.Roles, TokenType: string(claims.TokenType)}, nil
}

func (a *TokenIssuerAdapter) Refresh(refreshTokenString string) (*appuser.TokenPair, error) {
	pair, err := a.jwt.Refresh(refreshTokenString)
	if err != nil {
		return nil, err
	}
	return toAppUserPair(pair), nil
}

// TelegramTokenIssuerAdapter implements application/telegram.TokenIssuer.
type TelegramTokenIssuerAdapter struct {
	jwt *JWTService
}

func NewTelegramTokenIssuerAdapter(jwt *JWTService) *TelegramTokenIssuerAdapter {
	return &TelegramTokenIssuerAdapter{jwt: jwt}
}

func (a *TelegramTokenIssuerAdapter) Generate(userSID string, roles []string) (*apptelegram.TokenPair, error) {
	pair, err := a.jwt.Generate(userSID, roles)
	if err != nil {
		return nil, err
	}
	return toAppTelegramPair(pair), nil
}
