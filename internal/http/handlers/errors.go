// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., feedback_not_due, unknown_mode) are reserved for
//     business logic errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Usage:
//   - Handlers select the most specific matching code and pass it to `fail()` along
//     with the corresponding HTTP status and message.
//   - Clients are expected to branch on these codes for programmatic error handling.
//
// Example response:
//   {
//     "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//     "code": "conflict",
//     "message": "feedback already submitted"
//   }

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-startup-advisor/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeTurnFailed       = "turn_failed"
	ErrCodeUnknownMode      = "unknown_mode"
	ErrCodeTooLong          = "content_too_long"
	ErrCodeFeedbackNotDue   = "feedback_not_due"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// failService maps a service-layer error to its HTTP status and code. Errors
// that are not service sentinels become 500 with fallbackCode.
func failService(c *gin.Context, err error, fallbackCode string, maxRunes int) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeTooLong, fmt.Sprintf("content too long: max %d runes", maxRunes))
	case errors.Is(err, services.ErrUnknownMode):
		fail(c, http.StatusBadRequest, ErrCodeUnknownMode, "unknown expert mode")
	case errors.Is(err, services.ErrEmptyIdentifier):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrUserExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "user already exists")
	case errors.Is(err, services.ErrDuplicateFeedback):
		fail(c, http.StatusConflict, ErrCodeConflict, "feedback already submitted")
	case errors.Is(err, services.ErrFeedbackNotDue):
		fail(c, http.StatusConflict, ErrCodeFeedbackNotDue, "feedback is not due yet")
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
