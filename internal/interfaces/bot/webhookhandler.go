package bot

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	infratelegram "github.com/pedalworks/repairbay/internal/infrastructure/telegram"
	"github.com/pedalworks/repairbay/internal/shared/goroutine"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// WebhookHandler implements spec.md §5's `POST /bot/webhook/` contract: a
// JSON Update body, an optional X-Telegram-Bot-Api-Secret-Token check, and
// an immediate 200 acknowledgement — the update itself is processed after
// responding so Telegram's 15-second delivery ceiling is never at risk.
type WebhookHandler struct {
	handler *Handler
	secret  string
	log     logger.Interface
}

func NewWebhookHandler(handler *Handler, secret string, log logger.Interface) *WebhookHandler {
	return &WebhookHandler{handler: handler, secret: secret, log: log}
}

// ServeHTTP is registered directly as the route's gin.HandlerFunc (POST
// only — gin's router itself returns 405 for any other method on the
// same path since no other verb is registered for it).
func (h *WebhookHandler) ServeHTTP(c *gin.Context) {
	if h.secret != "" && c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != h.secret {
		c.Status(http.StatusUnauthorized)
		return
	}

	var update infratelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	c.Status(http.StatusOK)

	u := update
	goroutine.SafeGo(h.log, "telegram-webhook-update", func() {
		if err := h.handler.HandleUpdate(context.Background(), &u); err != nil {
			h.log.Errorw("failed to handle webhook update", "update_id", u.UpdateID, "error", err)
		}
	})
}
