package holds

import (
	"net/http"

	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateHold(c *gin.Context)
	GetHold(c *gin.Context)
	ListEventHolds(c *gin.Context)
	ReleaseHold(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreateHold godoc
// @Summary Hold seats under a label
// @Tags holds
// @Accept json
// @Produce json
// @Param body body CreateHoldRequest true "Hold"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /holds [post]
func (ctrl *controller) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondError(c, apperrors.InvalidInput("invalid event id"))
		return
	}
	seatIDs, err := seats.ParseIDs(req.SeatIDs)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	var createdBy *uuid.UUID
	if raw, ok := c.Get("user_id"); ok {
		if s, ok := raw.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				createdBy = &id
			}
		}
	}

	hold, err := ctrl.service.CreateHold(c.Request.Context(), eventID, seatIDs, req.Label, createdBy)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", hold, nil)
}

// GetHold godoc
// @Summary Get a hold with its seats
// @Tags holds
// @Produce json
// @Param id path string true "Hold ID"
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /holds/{id} [get]
func (ctrl *controller) GetHold(c *gin.Context) {
	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid hold ID", nil, err.Error())
		return
	}

	hold, err := ctrl.service.GetHold(c.Request.Context(), holdID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold retrieved successfully", hold, nil)
}

// ListEventHolds godoc
// @Summary List the holds of an event
// @Tags holds
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/holds [get]
func (ctrl *controller) ListEventHolds(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	list, err := ctrl.service.ListHolds(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Holds retrieved successfully", list, nil)
}

// ReleaseHold godoc
// @Summary Release a hold
// @Tags holds
// @Produce json
// @Param id path string true "Hold ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /holds/{id} [delete]
func (ctrl *controller) ReleaseHold(c *gin.Context) {
	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid hold ID", nil, err.Error())
		return
	}

	if err := ctrl.service.ReleaseHold(c.Request.Context(), holdID); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold released successfully", nil, nil)
}
