package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
)

type InventoryRouteConfig struct {
	InventoryHandler *handlers.InventoryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// SetupInventoryRoutes wires C3's catalog CRUD. Role gating for writes
// happens inside InventoryHandler itself.
func SetupInventoryRoutes(engine *gin.Engine, cfg *InventoryRouteConfig) {
	inv := engine.Group("/api/v1/inventory")
	inv.Use(cfg.AuthMiddleware.RequireAuth())
	{
		inv.POST("/categories", cfg.InventoryHandler.CreateCategory)
		inv.GET("/categories", cfg.InventoryHandler.ListCategories)
		inv.PATCH("/categories/:id", cfg.InventoryHandler.RenameCategory)

		inv.POST("/items", cfg.InventoryHandler.CreateItem)
		inv.GET("/items", cfg.InventoryHandler.ListItems)
		inv.POST("/items/:id/deactivate", cfg.InventoryHandler.DeactivateItem)
		inv.GET("/items/:id", cfg.InventoryHandler.GetItem)

		inv.POST("/parts", cfg.InventoryHandler.CreatePart)
		inv.GET("/parts", cfg.InventoryHandler.ListParts)
	}
}
