package models

import (
	"time"

	"github.com/google/uuid"
)

// InspectionRecord is immutable once created. TripID is nil for
// depot-only inspections.
type InspectionRecord struct {
	ID        uuid.UUID       `json:"id"`
	TripID    *int64          `json:"tripId,omitempty"`
	DriverID  int64           `json:"driverId"`
	Items     map[string]bool `json:"items"`
	Passed    bool            `json:"passed"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IncidentReport is a side-channel report that never changes trip status.
type IncidentReport struct {
	ID          uuid.UUID `json:"id"`
	TripID      *int64    `json:"tripId,omitempty"`
	DriverID    int64     `json:"driverId"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"createdAt"`
}
