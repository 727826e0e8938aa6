// Package http assembles the gin engine backing /api/v1, grounded on the
// teacher's internal/interfaces/http/router.go: one Router struct holding
// every handler and middleware, a SetupRoutes method registering each
// resource's route group, GetEngine/Run for the CLI server command.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/bot"
	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
	"github.com/pedalworks/repairbay/internal/interfaces/http/routes"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Handlers bundles every constructed handler the router needs — assembled
// by internal/bootstrap.Container, never by Router itself. BotWebhook is
// nil in polling mode, in which case SetupRoutes omits the route entirely.
type Handlers struct {
	Ticket         *handlers.TicketHandler
	AccessRequest  *handlers.AccessRequestHandler
	Inventory      *handlers.InventoryHandler
	XPLedger       *handlers.XPLedgerHandler
	Auth           *handlers.AuthHandler
	Health         *handlers.HealthHandler
	BotWebhook     *bot.WebhookHandler
	BotWebhookPath string
}

// Middleware bundles the shared middleware instances every route group
// composes from.
type Middleware struct {
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
}

type Router struct {
	engine *gin.Engine
	h      *Handlers
	mw     *Middleware
	log    logger.Interface
}

func NewRouter(h *Handlers, mw *Middleware, log logger.Interface) *Router {
	engine := gin.New()
	return &Router{engine: engine, h: h, mw: mw, log: log}
}

// SetupRoutes registers every route group. Matches the teacher's ordering:
// global middleware first, then each resource group.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS())

	routes.SetupHealthRoutes(r.engine, r.h.Health)
	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: r.h.Auth, AuthMiddleware: r.mw.Auth, RateLimiter: r.mw.RateLimiter,
	})
	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler: r.h.Ticket, AuthMiddleware: r.mw.Auth,
	})
	routes.SetupAccessRequestRoutes(r.engine, &routes.AccessRequestRouteConfig{
		AccessRequestHandler: r.h.AccessRequest, AuthMiddleware: r.mw.Auth, RateLimiter: r.mw.RateLimiter,
	})
	routes.SetupInventoryRoutes(r.engine, &routes.InventoryRouteConfig{
		InventoryHandler: r.h.Inventory, AuthMiddleware: r.mw.Auth,
	})
	routes.SetupXPLedgerRoutes(r.engine, &routes.XPLedgerRouteConfig{
		XPLedgerHandler: r.h.XPLedger, AuthMiddleware: r.mw.Auth,
	})

	if r.h.BotWebhook != nil {
		routes.SetupBotWebhookRoutes(r.engine, r.h.BotWebhookPath, r.h.BotWebhook)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
