package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/bot"
)

// SetupBotWebhookRoutes wires spec.md §5's `POST /bot/webhook/` path when
// telegram.mode is "webhook" — omitted entirely in polling mode. Other
// methods on the path get gin's 405 response.
func SetupBotWebhookRoutes(engine *gin.Engine, path string, h *bot.WebhookHandler) {
	engine.HandleMethodNotAllowed = true
	engine.POST(path, h.ServeHTTP)
}
