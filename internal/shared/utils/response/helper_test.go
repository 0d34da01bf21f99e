package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"seatline/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, err)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondErrorConflictCarriesLabels(t *testing.T) {
	w, body := respond(apperrors.Conflict("seats are on hold", "A1", "A2"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, float64(http.StatusConflict), body["status_code"])

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", errs["kind"])
	assert.Equal(t, []interface{}{"A1", "A2"}, errs["details"])
}

func TestRespondErrorUnavailableIsRetryable(t *testing.T) {
	w, body := respond(apperrors.Unavailable("busy", errors.New("lock timeout")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, true, errs["retryable"])
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	w, body := respond(errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["message"])
}
