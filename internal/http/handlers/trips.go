package handlers

import (
	"net/http"

	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/input"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type startRequest struct {
	ConfirmInspection bool `json:"confirmInspection"`
}

type delayRequest struct {
	Reason string `json:"reason"`
}

// GET /api/trips/:id
func (h Handlers) GetTrip(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := h.Trips.Trip(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// POST /api/trips/:id/start
func (h Handlers) StartTrip(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req startRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.dispatch(c, input.Command{
		TripID:            id,
		Action:            lifecycle.ActionStart,
		Source:            input.SourceManual,
		ConfirmInspection: req.ConfirmInspection,
	})
}

// POST /api/trips/:id/complete
func (h Handlers) CompleteTrip(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.dispatch(c, input.Command{TripID: id, Action: lifecycle.ActionComplete, Source: input.SourceManual})
}

// POST /api/trips/:id/delay
func (h Handlers) DelayTrip(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req delayRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	h.dispatch(c, input.Command{TripID: id, Action: lifecycle.ActionDelay, Source: input.SourceManual, Reason: req.Reason})
}

// POST /api/trips/:id/cancel
func (h Handlers) CancelTrip(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := h.Trips.Cancel(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/drivers/:id/trips?date=YYYY-MM-DD
func (h Handlers) DriverTrips(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	day := utils.NowUTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw, h.Location)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}
	trips, err := h.Trips.TodayTrips(c.Request.Context(), middleware.GetRequestContext(c), id, day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

func (h Handlers) dispatch(c *gin.Context, cmd input.Command) {
	res := h.Router.Dispatch(c.Request.Context(), middleware.GetRequestContext(c), cmd)
	if res.Err != nil {
		RespondDomainError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, res)
}
