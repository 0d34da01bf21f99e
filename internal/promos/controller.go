package promos

import (
	"net/http"

	"seatline/internal/shared/middleware"
	"seatline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreatePromo(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreatePromo godoc
// @Summary Create a promo code for an event
// @Tags promos
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body CreatePromoRequest true "Promo"
// @Success 201 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/promos [post]
func (ctrl *controller) CreatePromo(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	promo, err := ctrl.service.CreatePromo(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Promo created successfully", promo, nil)
}

func SetupPromoRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	adminPromos := router.Group("/events")
	adminPromos.Use(auth, middleware.RequireAdmin())
	{
		adminPromos.POST("/:id/promos", controller.CreatePromo) // POST /api/v1/events/:id/promos
	}
}
