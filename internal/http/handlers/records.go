package handlers

import (
	"net/http"
	"strings"

	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

type incidentRequest struct {
	TripID   *int64 `json:"tripId"`
	Details  string `json:"details"`
	Severity string `json:"severity"`
}

// POST /api/incidents
func (h Handlers) ReportIncident(c *gin.Context) {
	var req incidentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rep, err := h.Trips.ReportIncident(
		c.Request.Context(),
		middleware.GetRequestContext(c),
		req.TripID,
		req.Details,
		models.Severity(strings.ToLower(strings.TrimSpace(req.Severity))),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, rep)
}

// POST /api/inspections
func (h Handlers) RecordInspection(c *gin.Context) {
	var req lifecycle.InspectionInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rec, err := h.Records.Inspect(c.Request.Context(), middleware.GetRequestContext(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// GET /api/trips/:id/inspection
func (h Handlers) InspectionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	passed, err := h.Records.InspectionStatus(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tripId": id, "satisfied": passed})
}
