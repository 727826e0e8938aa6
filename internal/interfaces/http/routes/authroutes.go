package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
)

type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/api/v1/auth")
	{
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/telegram/verify", cfg.RateLimiter.Limit(), cfg.AuthHandler.TelegramVerify)
		auth.GET("/verify", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Verify)
	}
}
