// Package auth provides JWT issuance/verification and password hashing,
// grounded on the teacher's internal/infrastructure/auth package.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carries the fields spec.md §6 requires in the bearer token
// payload: exp, roles, role_slugs.
type Claims struct {
	UserSID   string    `json:"user_sid"`
	Roles     []string  `json:"roles"`
	RoleSlugs []string  `json:"role_slugs"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type JWTService struct {
	secret            []byte
	accessExpSeconds  int
	refreshExpSeconds int
}

func NewJWTService(secret string, accessExpSeconds, refreshExpSeconds int) *JWTService {
	return &JWTService{secret: []byte(secret), accessExpSeconds: accessExpSeconds, refreshExpSeconds: refreshExpSeconds}
}

func (s *JWTService) buildClaims(userSID string, roles []string, tokenType TokenType, ttl time.Duration, now time.Time) *Claims {
	return &Claims{
		UserSID: userSID, Roles: roles, RoleSlugs: roles, TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Generate issues a fresh access/refresh pair for userSID with its current
// role slugs (spec.md §6).
func (s *JWTService) Generate(userSID string, roles []string) (*TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.sign(s.buildClaims(userSID, roles, TokenTypeAccess, time.Duration(s.accessExpSeconds)*time.Second, now))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.sign(s.buildClaims(userSID, roles, TokenTypeRefresh, time.Duration(s.refreshExpSeconds)*time.Second, now))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresIn: int64(s.accessExpSeconds)}, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Refresh rotates both tokens from a valid refresh token.
func (s *JWTService) Refresh(refreshTokenString string) (*TokenPair, error) {
	claims, err := s.Verify(refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return s.Generate(claims.UserSID, claims.Roles)
}
