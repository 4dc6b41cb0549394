package handlers

import (
	"net/http"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Window and
// transition rejections are 409 with the rejection reason as code.
func RespondDomainError(c *gin.Context, err error) {
	if reason, ok := domain.RejectionReason(err); ok {
		status := http.StatusConflict
		if reason == domain.ReasonInvalidTimestamp {
			status = http.StatusBadRequest
		}
		respondError(c, status, string(reason), err.Error(), nil)
		return
	}
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsInternal(err):
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
