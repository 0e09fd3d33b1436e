package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirzalazuardi/inventory-page/internal/api/handler"
	"github.com/mirzalazuardi/inventory-page/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	itemHandler *handler.ItemHandler,
	movementHandler *handler.MovementHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Item administration
		items := v1.Group("/items")
		{
			items.POST("", itemHandler.Create)
			items.GET("/:id", itemHandler.GetByID)
			items.DELETE("/:id", itemHandler.Delete)
			items.GET("/:id/movements", movementHandler.ListByItemID)
		}

		// Stock movements
		movements := v1.Group("/movements")
		{
			movements.POST("", movementHandler.Create)
			movements.GET("", movementHandler.List)
			movements.GET("/:id", movementHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
