package handlers

import (
	"net/http"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/drivers/:id/fitness?at=2025-03-10 09:35:00
func (h Handlers) DriverFitness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var (
		rep services.FitnessReport
		err error
	)
	rc := middleware.GetRequestContext(c)
	if raw := c.Query("at"); raw != "" {
		at, perr := lifecycle.ParseTimestamp(raw, h.Location)
		if perr != nil {
			RespondDomainError(c, perr)
			return
		}
		rep, err = h.Fitness.DriverFitnessAt(c.Request.Context(), rc, id, at)
	} else {
		rep, err = h.Fitness.DriverFitness(c.Request.Context(), rc, id)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /api/fleet/fitness?driverIds=1,2,3
func (h Handlers) FleetFitness(c *gin.Context) {
	ids := utils.SplitIDList(c.Query("driverIds"))
	if len(ids) == 0 {
		RespondDomainError(c, domain.ValidationError{Field: "driverIds", Msg: "at least one driver id is required"})
		return
	}
	reports, err := h.Fitness.FleetFitness(c.Request.Context(), middleware.GetRequestContext(c), ids)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports})
}
