package holds

import (
	"seatline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupHoldRoutes registers hold management. Holds are a box-office tool,
// so every route needs an organizer or admin token.
func SetupHoldRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	staff := middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleOrganizer)

	holdRoutes := router.Group("/holds")
	holdRoutes.Use(auth, staff)
	{
		holdRoutes.POST("", controller.CreateHold)        // POST /api/v1/holds
		holdRoutes.GET("/:id", controller.GetHold)        // GET /api/v1/holds/:id
		holdRoutes.DELETE("/:id", controller.ReleaseHold) // DELETE /api/v1/holds/:id
	}

	eventHolds := router.Group("/events")
	eventHolds.Use(auth, staff)
	{
		eventHolds.GET("/:id/holds", controller.ListEventHolds) // GET /api/v1/events/:id/holds
	}
}
