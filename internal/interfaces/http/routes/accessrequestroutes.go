package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
)

type AccessRequestRouteConfig struct {
	AccessRequestHandler *handlers.AccessRequestHandler
	AuthMiddleware       *middleware.AuthMiddleware
	RateLimiter          *middleware.RateLimiter
}

// SetupAccessRequestRoutes wires C2's onboarding flow. Create is reachable
// without a linked account (spec.md §4.2), so it only sits behind the rate
// limiter; approve/reject/list require an authenticated moderator.
func SetupAccessRequestRoutes(engine *gin.Engine, cfg *AccessRequestRouteConfig) {
	requests := engine.Group("/api/v1/access-requests")
	{
		requests.POST("", cfg.RateLimiter.Limit(), cfg.AccessRequestHandler.Create)

		protected := requests.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.GET("", cfg.AccessRequestHandler.List)
			protected.POST("/:id/approve", cfg.AccessRequestHandler.Approve)
			protected.POST("/:id/reject", cfg.AccessRequestHandler.Reject)
		}
	}
}
