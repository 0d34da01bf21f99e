package events

import (
	"seatline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	// Public routes
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	// Admin routes - capacity and creation
	adminEvents := router.Group("/events")
	adminEvents.Use(auth, middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)                  // POST /api/v1/events
		adminEvents.PATCH("/:id/capacity", controller.UpdateCapacity) // PATCH /api/v1/events/:id/capacity
	}
}
