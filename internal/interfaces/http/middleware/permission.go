package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// CapabilityChecker is the port onto application/permission.Service: it
// combines casbin's role policy with the object-state predicate in one call.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, u *user.User, capability authorization.Capability, objCtx authorization.ObjectContext) (bool, error)
}

// RequireCapability implements C1's has(capability, user, object?) gate for
// routes whose object context doesn't depend on a loaded entity (e.g.
// ticket.create, access_request.moderate). Handlers for routes whose
// predicate needs a loaded ticket/session perform the check themselves
// after loading, using the same CapabilityChecker.
func RequireCapability(checker CapabilityChecker, capability authorization.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CallerFromContext(c)
		if !ok {
			httpresponse.FromError(c, apperrors.NewUnauthenticatedError("authentication required"))
			c.Abort()
			return
		}
		allowed, err := checker.HasCapability(c.Request.Context(), u, capability, authorization.ObjectContext{})
		if err != nil {
			httpresponse.FromError(c, apperrors.NewInternalError("capability check failed", err.Error()))
			c.Abort()
			return
		}
		if !allowed {
			httpresponse.FromError(c, apperrors.NewForbiddenError("caller lacks required capability"))
			c.Abort()
			return
		}
		c.Next()
	}
}
