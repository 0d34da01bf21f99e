package response

import (
	"net/http"

	"seatline/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a classified error onto the envelope. Seat labels or
// ids attached to the error are returned in errors. Internal failures
// never leak their cause.
func RespondError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}

	body := gin.H{"kind": apperrors.KindOf(err)}
	if details := apperrors.DetailsOf(err); len(details) > 0 {
		body["details"] = details
	}
	if apperrors.Retryable(err) {
		body["retryable"] = true
	}

	_ = c.Error(err)
	RespondJSON(c, "error", code, message, nil, body)
}
