package bookings

import (
	"seatline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/quote", controller.Quote) // POST /api/v1/bookings/quote

		bookings.POST("", auth, middleware.RequireAdmin(), controller.CreateBooking)       // POST /api/v1/bookings
		bookings.DELETE("/:id", auth, middleware.RequireAdmin(), controller.DeleteBooking) // DELETE /api/v1/bookings/:id

		staff := middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleOrganizer)
		bookings.GET("/:id", auth, staff, controller.GetBooking)        // GET /api/v1/bookings/:id
		bookings.POST("/:id/check-in", auth, staff, controller.CheckIn) // POST /api/v1/bookings/:id/check-in
	}
}

// Route definitions for reference:
//
// QUOTE
// POST   /api/v1/bookings/quote          - Price seats (+ promo) for a checkout session
// Request body: { "event_id": "...", "seat_ids": ["..."], "promo_code": "EARLY" }
//
// ADMIN BOOKING
// POST   /api/v1/bookings                - Book seats directly, held seats rejected
// DELETE /api/v1/bookings/:id            - Delete a booking, seats back to AVAILABLE
//
// DOOR
// GET    /api/v1/bookings/:id            - Booking with its seats
// POST   /api/v1/bookings/:id/check-in   - Mark the attendee as arrived (once)
//
// Payment-driven bookings are created by POST /api/v1/checkout/confirm.
