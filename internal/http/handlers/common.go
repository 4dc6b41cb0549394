package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/input"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers holds the services behind the API.
type Handlers struct {
	Trips    services.TripService
	Fitness  services.FitnessService
	Records  services.RecordService
	Router   *input.Router
	Location *time.Location
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload", err.Error())
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body and leaves dst untouched.
func bindOptionalJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return BindJSONOrError(c, dst)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}
