package handlers

import (
	"net/http"
	"strings"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/input"
	"fleetdesk/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

type commandRequest struct {
	TripID            int64           `json:"tripId"`
	Action            string          `json:"action"`
	Source            string          `json:"source"`
	Transcript        string          `json:"transcript"`
	Code              string          `json:"code"`
	ConfirmInspection bool            `json:"confirmInspection"`
	Reason            string          `json:"reason"`
	Details           string          `json:"details"`
	Severity          string          `json:"severity"`
	Checklist         map[string]bool `json:"checklist"`
}

// POST /api/commands
//
// Accepts commands from any client-side surface. Voice requests send the
// transcript; scan requests send the decoded code and the action.
func (h Handlers) PostCommand(c *gin.Context) {
	var req commandRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	cmd, err := normalizeCommand(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.dispatch(c, cmd)
}

func normalizeCommand(req commandRequest) (input.Command, error) {
	src := input.Source(strings.ToLower(strings.TrimSpace(req.Source)))
	action := lifecycle.Action(strings.ToLower(strings.TrimSpace(req.Action)))

	var cmd input.Command
	switch src {
	case input.SourceVoice:
		var ok bool
		cmd, ok = input.VoiceCommand(req.TripID, req.Transcript)
		if !ok {
			return cmd, domain.ValidationError{Field: "transcript", Msg: "no command recognized"}
		}
	case input.SourceScan:
		var err error
		cmd, err = input.ScanCommand(req.Code, action)
		if err != nil {
			return cmd, domain.ValidationError{Field: "code", Msg: err.Error()}
		}
	case input.SourceManual, "":
		cmd = input.Command{TripID: req.TripID, Action: action, Source: input.SourceManual}
	default:
		return cmd, domain.ValidationError{Field: "source", Msg: "must be manual, scan or voice"}
	}

	cmd.ConfirmInspection = req.ConfirmInspection
	cmd.Checklist = req.Checklist
	if req.Reason != "" {
		cmd.Reason = req.Reason
	}
	if req.Details != "" {
		cmd.Details = req.Details
	}
	cmd.Severity = models.Severity(strings.ToLower(strings.TrimSpace(req.Severity)))
	return cmd, nil
}

// GET /api/input/adapters
func (h Handlers) AdapterStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Router.Status()})
}

type adapterReport struct {
	Available *bool  `json:"available"`
	Error     string `json:"error"`
}

// PUT /api/input/adapters/:source
//
// Clients report whether the camera or speech capability behind a surface
// could be opened. Manual buttons keep working either way.
func (h Handlers) ReportAdapter(c *gin.Context) {
	var req adapterReport
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Available == nil {
		RespondDomainError(c, domain.ValidationError{Field: "available", Msg: "is required"})
		return
	}
	src := input.Source(strings.ToLower(strings.TrimSpace(c.Param("source"))))
	st, err := h.Router.Report(middleware.GetRequestContext(c), src, *req.Available, req.Error)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
