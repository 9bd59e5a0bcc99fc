package apiresponses

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError represents a standardized error response.
// This ensures consistent error message formatting across all API endpoints.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondBadRequest sends a 400 Bad Request response.
// Use this for client errors like malformed JSON or missing fields.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, APIError{
		Error: message,
		Code:  "VALIDATION",
	})
}

// RespondUnauthorized sends a 401 Unauthorized response.
// The message is fixed so callers cannot tell which credential check failed.
func RespondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, APIError{
		Error: "invalid client credentials",
		Code:  "AUTHENTICATION",
	})
}

// RespondTokenRequired sends a 401 response for requests lacking a bearer token.
func RespondTokenRequired(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, APIError{
		Error: "access token required",
		Code:  "AUTHENTICATION",
	})
}

// RespondInvalidToken sends a 403 response for token verification failures.
// Malformed, tampered and expired tokens all produce this same body.
func RespondInvalidToken(c *gin.Context) {
	c.JSON(http.StatusForbidden, APIError{
		Error: "invalid or expired token",
		Code:  "AUTHENTICATION",
	})
}

// RespondRateLimited sends a 429 response with a Retry-After header.
func RespondRateLimited(c *gin.Context, retryAfter time.Duration) {
	secs := int64(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.FormatInt(secs, 10))
	c.JSON(http.StatusTooManyRequests, APIError{
		Error:   "too many requests, please try again later",
		Code:    "RATE_LIMITED",
		Details: "retry after " + strconv.FormatInt(secs, 10) + "s",
	})
}

// RespondNotFound sends a 404 Not Found response with a standardized message.
func RespondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, APIError{
		Error: "endpoint not found",
		Code:  "NOT_FOUND",
	})
}

// RespondInternalError sends a 500 Internal Server Error response.
// It logs the error with full details but returns a sanitized message to
// the client; upstream failures and unexpected faults look identical.
func RespondInternalError(c *gin.Context, operation string, err error, log *zap.SugaredLogger) {
	if log != nil {
		log.Errorw("failed to "+operation, "error", err)
	}
	c.JSON(http.StatusInternalServerError, APIError{
		Error: "internal server error",
		Code:  "INTERNAL_ERROR",
	})
}

// RespondOK sends a 200 OK response with the given data.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
