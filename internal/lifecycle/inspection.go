package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/utils"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

// InspectionInput is a checklist submission. Passed defaults to "every item
// checked" when nil.
type InspectionInput struct {
	TripID   *int64          `json:"tripId,omitempty"`
	DriverID int64           `json:"driverId"`
	Items    map[string]bool `json:"items"`
	Passed   *bool           `json:"passed,omitempty"`
	Source   string          `json:"source"`
}

// Gate answers whether a trip has a passing pre-trip inspection. The trip
// state machine does not consult it; starting a trip is never blocked here.
type Gate struct {
	store InspectionStore
	clock clockz.Clock
}

func NewGate(store InspectionStore) *Gate {
	return &Gate{store: store, clock: clockz.RealClock}
}

func (g *Gate) WithClock(clock clockz.Clock) *Gate {
	g.clock = clock
	return g
}

// IsInspectionSatisfied reports whether the latest inspection for the trip passed.
func (g *Gate) IsInspectionSatisfied(ctx context.Context, tripID int64) (bool, error) {
	if g == nil || g.store == nil {
		return false, nil
	}
	rec, ok, err := g.store.LatestInspection(ctx, tripID)
	if err != nil {
		return false, fmt.Errorf("latest inspection for trip %d: %w", tripID, err)
	}
	return ok && rec.Passed, nil
}

// Record stores an inspection. Depot inspections carry no trip.
func (g *Gate) Record(ctx context.Context, in InspectionInput) (models.InspectionRecord, error) {
	if in.DriverID <= 0 {
		return models.InspectionRecord{}, domain.ValidationError{Field: "driverId", Msg: "is required"}
	}
	if in.TripID != nil && *in.TripID <= 0 {
		return models.InspectionRecord{}, domain.ValidationError{Field: "tripId", Msg: "must be positive"}
	}

	items := make(map[string]bool, len(in.Items))
	allChecked := true
	for k, v := range in.Items {
		k = utils.NormalizeSpace(k)
		if k == "" {
			continue
		}
		items[k] = v
		allChecked = allChecked && v
	}
	passed := allChecked
	if in.Passed != nil {
		passed = *in.Passed
	}

	source := strings.ToLower(utils.TrimOrEmpty(in.Source))
	if source == "" {
		source = "manual"
	}

	rec := models.InspectionRecord{
		ID:        uuid.New(),
		TripID:    in.TripID,
		DriverID:  in.DriverID,
		Items:     items,
		Passed:    passed,
		Source:    source,
		CreatedAt: g.clock.Now(),
	}
	if g.store == nil {
		return rec, domain.InternalError{Msg: "inspection store not configured"}
	}
	if err := g.store.InsertInspection(ctx, rec); err != nil {
		return rec, fmt.Errorf("insert inspection: %w", err)
	}
	return rec, nil
}

// RecordBestEffort writes an inspection and only logs a failure.
func (g *Gate) RecordBestEffort(ctx context.Context, in InspectionInput) {
	if g == nil {
		return
	}
	rec, err := g.Record(ctx, in)
	reqID := utils.RequestIDFromContext(ctx)
	if err != nil {
		utils.LogEvent(reqID, "inspection", "best_effort_error", err.Error())
		return
	}
	utils.LogEvent(reqID, "inspection", "best_effort", "id="+rec.ID.String())
}
