package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"seatline/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateCapacity(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events [post]
func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	var createdBy *uuid.UUID
	if userID, ok := c.Get("user_id"); ok {
		if s, ok := userID.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				createdBy = &id
			}
		}
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), createdBy, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id} [get]
func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

// UpdateCapacity godoc
// @Summary Set or clear the event capacity ceiling
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body UpdateCapacityRequest true "Capacity"
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/capacity [patch]
func (ctrl *controller) UpdateCapacity(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.UpdateCapacity(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event capacity updated successfully", event, nil)
}
