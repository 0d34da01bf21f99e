package venues

import (
	"net/http"

	"seatline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateVenueMap(c *gin.Context)
	DuplicateVenueMap(c *gin.Context)
	GetVenueMap(c *gin.Context)
	GetSeatMap(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func parseEventID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return uuid.Nil, false
	}
	return eventID, true
}

// CreateVenueMap godoc
// @Summary Create the venue map of an event
// @Description Sections and tables without a position are laid out automatically.
// @Tags venues
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body CreateVenueMapRequest true "Floor plan"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/venue-map [post]
func (ctrl *controller) CreateVenueMap(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	var req CreateVenueMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	vm, err := ctrl.service.CreateVenueMap(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Venue map created successfully", vm, nil)
}

// DuplicateVenueMap godoc
// @Summary Copy another event's venue map onto this event
// @Tags venues
// @Accept json
// @Produce json
// @Param id path string true "Target event ID"
// @Param body body DuplicateVenueMapRequest true "Source"
// @Success 201 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/venue-map/duplicate [post]
func (ctrl *controller) DuplicateVenueMap(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	var req DuplicateVenueMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	sourceID, _ := uuid.Parse(req.SourceEventID)

	vm, err := ctrl.service.DuplicateVenueMap(c.Request.Context(), sourceID, eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Venue map duplicated successfully", vm, nil)
}

// GetVenueMap godoc
// @Summary Get the venue map of an event
// @Tags venues
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id}/venue-map [get]
func (ctrl *controller) GetVenueMap(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	vm, err := ctrl.service.GetVenueMap(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Venue map retrieved successfully", vm, nil)
}

// GetSeatMap godoc
// @Summary Get seat statuses of an event
// @Tags venues
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id}/seat-map [get]
func (ctrl *controller) GetSeatMap(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}
