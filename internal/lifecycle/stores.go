package lifecycle

import (
	"context"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

// TripStore persists trips. CompareAndSwapStatus must apply update only
// when the stored status still equals expected, and report whether it did.
type TripStore interface {
	GetTrip(ctx context.Context, id int64) (models.Trip, error)
	CompareAndSwapStatus(ctx context.Context, update models.StatusUpdate, expected domain.Status) (bool, error)
}

// ShiftSource lists shifts for a driver overlapping [from, to).
type ShiftSource interface {
	ListShifts(ctx context.Context, driverID int64, from, to time.Time) ([]models.ShiftInterval, error)
}

// ThresholdSource loads a company's fatigue configuration.
type ThresholdSource interface {
	GetThresholds(ctx context.Context, companyID int64) (models.FatigueThresholds, error)
}

type InspectionStore interface {
	InsertInspection(ctx context.Context, rec models.InspectionRecord) error
	// LatestInspection returns the newest record for the trip, if any.
	LatestInspection(ctx context.Context, tripID int64) (models.InspectionRecord, bool, error)
}

type IncidentSink interface {
	InsertIncident(ctx context.Context, rep models.IncidentReport) error
}
