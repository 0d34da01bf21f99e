package venues

import (
	"seatline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	publicVenues := router.Group("/events")
	{
		publicVenues.GET("/:id/venue-map", controller.GetVenueMap) // GET /api/v1/events/:id/venue-map
		publicVenues.GET("/:id/seat-map", controller.GetSeatMap)   // GET /api/v1/events/:id/seat-map
	}

	adminVenues := router.Group("/events")
	adminVenues.Use(auth, middleware.RequireAdmin())
	{
		adminVenues.POST("/:id/venue-map", controller.CreateVenueMap)              // POST /api/v1/events/:id/venue-map
		adminVenues.POST("/:id/venue-map/duplicate", controller.DuplicateVenueMap) // POST /api/v1/events/:id/venue-map/duplicate
	}
}
