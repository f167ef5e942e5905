package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the standardized failure body: {"success": false, "error": "...", "code": "..."}.
type APIError struct {
	StatusCode int    `json:"-"`
	Success    bool   `json:"success"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// RespondWithError sends a standardized JSON error response and aborts the chain.
func RespondWithError(c *gin.Context, err *APIError) {
	err.Success = false
	c.AbortWithStatusJSON(err.StatusCode, err)
}

// Error codes returned in the "code" field.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeSlotUnavailable     = "SLOT_UNAVAILABLE"
	ErrCodeNotFoundOrUnauth    = "NOT_FOUND_OR_UNAUTHORIZED"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
)

// RespondValidationFailed answers 400 with the given message.
func RespondValidationFailed(c *gin.Context, message string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message, ""))
}

// RespondInternal answers 500 with a generic message; the cause is only logged.
func RespondInternal(c *gin.Context, cause error, logMessage string) {
	LogError(cause, logMessage, map[string]interface{}{"request_id": c.GetString(RequestIDKey)})
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, ErrCodeInternalServerError, "Internal server error", ""))
}
