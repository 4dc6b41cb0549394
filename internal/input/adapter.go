package input

import (
	"errors"

	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
)

// Source names the surface a command came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceScan   Source = "scan"
	SourceVoice  Source = "voice"
)

func (s Source) Valid() bool {
	return s == SourceManual || s == SourceScan || s == SourceVoice
}

// ErrAdapterUnavailable means the platform capability behind an adapter
// (camera, speech API) is missing or was refused.
var ErrAdapterUnavailable = errors.New("input adapter unavailable")

// Command is the normalized form of every driver input.
type Command struct {
	TripID            int64            `json:"tripId"`
	Action            lifecycle.Action `json:"action"`
	Source            Source           `json:"source"`
	ConfirmInspection bool             `json:"confirmInspection"`
	Reason            string           `json:"reason,omitempty"`
	Details           string           `json:"details,omitempty"`
	Severity          models.Severity  `json:"severity,omitempty"`
	Checklist         map[string]bool  `json:"checklist,omitempty"`
}

// InputAdapter is any surface that produces commands. The router does not
// care which adapter is active or whether it managed to start.
type InputAdapter interface {
	Source() Source
	Start() error
	Stop() error
	OnCommand(handler func(Command))
}
