// Package middleware holds the gin middleware chain shared by every
// /api/v1 route, grounded on the teacher's
// internal/interfaces/http/middleware package.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/constants"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

var errUnauthenticated = apperrors.NewUnauthenticatedError("missing or malformed Authorization header")

// Verifier is the port onto application/user.AuthService.Verify, the bearer
// half of C1's current_user(request).
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (*user.User, error)
}

type AuthMiddleware struct {
	verifier Verifier
}

func NewAuthMiddleware(verifier Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth resolves the caller from the Authorization: Bearer header and
// aborts the request with 401 when no valid token is present.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := m.resolve(c)
		if err != nil {
			httpresponse.FromError(c, err)
			c.Abort()
			return
		}
		setCallerContext(c, u)
		c.Next()
	}
}

// OptionalAuth resolves the caller if a token is present but never aborts,
// for routes the bot-initiated access-request flow must allow anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := m.resolve(c); err == nil {
			setCallerContext(c, u)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*user.User, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, errUnauthenticated
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return m.verifier.Verify(c.Request.Context(), token)
}

func setCallerContext(c *gin.Context, u *user.User) {
	c.Set(constants.ContextKeyUserID, u.ID())
	c.Set(contextKeyUser, u)
}

// CallerFromContext retrieves the resolved user set by RequireAuth/OptionalAuth.
func CallerFromContext(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

const contextKeyUser = "caller_user"
