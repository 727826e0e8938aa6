package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *handlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupTicketRoutes wires C4's HTTP surface. Object-state authorization
// happens inside TicketHandler itself (it needs the loaded ticket), so
// only RequireAuth runs here.
func SetupTicketRoutes(engine *gin.Engine, cfg *TicketRouteConfig) {
	tickets := engine.Group("/api/v1/tickets")
	tickets.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: specific paths before /:id to avoid route conflicts.
		tickets.POST("", cfg.TicketHandler.CreateTicket)
		tickets.GET("", cfg.TicketHandler.ListTickets)

		tickets.POST("/:id/review_approve", cfg.TicketHandler.ReviewApprove)
		tickets.POST("/:id/assign", cfg.TicketHandler.Assign)
		tickets.POST("/:id/start_work", cfg.TicketHandler.StartWork)
		tickets.POST("/:id/pause", cfg.TicketHandler.Pause)
		tickets.POST("/:id/resume", cfg.TicketHandler.Resume)
		tickets.POST("/:id/stop", cfg.TicketHandler.Stop)
		tickets.POST("/:id/to_waiting_qc", cfg.TicketHandler.ToWaitingQC)
		tickets.POST("/:id/qc_pass", cfg.TicketHandler.QCPass)
		tickets.POST("/:id/qc_fail", cfg.TicketHandler.QCFail)
		tickets.POST("/:id/manual_metrics", cfg.TicketHandler.ManualMetrics)
		tickets.GET("/:id/transitions", cfg.TicketHandler.ListTransitions)
		tickets.GET("/:id/work_sessions", cfg.TicketHandler.ListWorkSessions)

		tickets.GET("/:id", cfg.TicketHandler.GetTicket)
	}
}
