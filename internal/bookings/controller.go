package bookings

import (
	"net/http"

	"seatline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking godoc
// @Summary Book seats directly for an attendee
// @Description Admin path. Seats on hold are rejected; the event capacity ceiling is enforced.
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body CreateBookingRequest true "Booking"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// Quote godoc
// @Summary Price a set of seats
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body QuoteRequest true "Seats and optional promo code"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/quote [post]
func (c *Controller) Quote(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote computed successfully", quote, nil)
}

// GetBooking godoc
// @Summary Get a booking with its seats
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// DeleteBooking godoc
// @Summary Delete a booking and release its seats
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /bookings/{id} [delete]
func (c *Controller) DeleteBooking(ctx *gin.Context) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteBooking(ctx.Request.Context(), bookingID); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking deleted successfully", nil, nil)
}

// CheckIn godoc
// @Summary Check an attendee in
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /bookings/{id}/check-in [post]
func (c *Controller) CheckIn(ctx *gin.Context) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.CheckIn(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Attendee checked in", booking, nil)
}

func parseBookingID(ctx *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return uuid.Nil, false
	}
	return bookingID, true
}
