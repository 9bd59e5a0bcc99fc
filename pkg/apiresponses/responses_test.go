package apiresponses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestRespondBadRequest(t *testing.T) {
	rec := record(func(c *gin.Context) { RespondBadRequest(c, "file name and data are required") })
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, "file name and data are required", apiErr.Error)
}

func TestAuthResponsesDoNotLeakFailureCause(t *testing.T) {
	// Bad secret and unknown client must produce byte-identical bodies.
	recA := record(RespondUnauthorized)
	recB := record(RespondUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, recA.Code)
	assert.Equal(t, recA.Body.String(), recB.Body.String())

	// Same for the token failure modes.
	recC := record(RespondInvalidToken)
	recD := record(RespondInvalidToken)
	assert.Equal(t, http.StatusForbidden, recC.Code)
	assert.Equal(t, recC.Body.String(), recD.Body.String())
}

func TestRespondTokenRequired(t *testing.T) {
	rec := record(RespondTokenRequired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTHENTICATION", decodeError(t, rec).Code)
}

func TestRespondRateLimited(t *testing.T) {
	t.Run("sets retry-after header", func(t *testing.T) {
		rec := record(func(c *gin.Context) { RespondRateLimited(c, 90*time.Second) })
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "90", rec.Header().Get("Retry-After"))
		assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Code)
	})

	t.Run("rounds sub-second delays up to one second", func(t *testing.T) {
		rec := record(func(c *gin.Context) { RespondRateLimited(c, 10*time.Millisecond) })
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})
}

func TestRespondInternalError(t *testing.T) {
	rec := record(func(c *gin.Context) {
		RespondInternalError(c, "upload file", errors.New("connection refused"), zap.NewNop().Sugar())
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	// Internal detail must never reach the caller.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRespondNotFound(t *testing.T) {
	rec := record(RespondNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}
