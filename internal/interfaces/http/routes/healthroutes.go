package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
)

func SetupHealthRoutes(engine *gin.Engine, h *handlers.HealthHandler) {
	engine.GET("/api/v1/misc/health", h.Health)
}
