package checkout

import (
	"net/http"

	"seatline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	orchestrator *Orchestrator
}

func NewController(orchestrator *Orchestrator) *Controller {
	return &Controller{orchestrator: orchestrator}
}

// Confirm godoc
// @Summary Confirm a paid checkout session
// @Description Creates the booking for a paid session. Repeating the call with the same reference returns the same booking with duplicate=true.
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body ConfirmRequest true "Payment reference"
// @Success 200 {object} response.StandardApiResponse
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 503 {object} response.StandardApiResponse
// @Router /checkout/confirm [post]
func (c *Controller) Confirm(ctx *gin.Context) {
	var req ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.orchestrator.Confirm(ctx.Request.Context(), req.PaymentReference)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	if result.Duplicate {
		response.RespondJSON(ctx, "success", http.StatusOK, "Booking already confirmed", result, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking confirmed successfully", result, nil)
}

// SetupCheckoutRoutes mounts the payment confirmation callback. It carries
// no user token; the payment integration calls it after verifying the
// provider's webhook.
func SetupCheckoutRoutes(rg *gin.RouterGroup, controller *Controller) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("/confirm", controller.Confirm) // POST /api/v1/checkout/confirm
	}
}
