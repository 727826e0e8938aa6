package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
)

type XPLedgerRouteConfig struct {
	XPLedgerHandler *handlers.XPLedgerHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupXPLedgerRoutes(engine *gin.Engine, cfg *XPLedgerRouteConfig) {
	xp := engine.Group("/api/v1/xp")
	xp.Use(cfg.AuthMiddleware.RequireAuth())
	{
		xp.GET("/ledger", cfg.XPLedgerHandler.List)
		xp.GET("/ledger/summary", cfg.XPLedgerHandler.Summary)
	}
}
