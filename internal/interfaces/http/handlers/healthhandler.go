package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// HealthHandler backs GET /misc/health, a liveness probe with no
// dependency checks — matching the teacher's own bare health endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(c *gin.Context) {
	httpresponse.OK(c, gin.H{"status": "ok"})
}
