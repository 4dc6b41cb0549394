package lifecycle

import (
	"context"
	"errors"
	"testing"

	"fleetdesk/internal/domain"

	"github.com/zoobzio/clockz"
)

func TestGate_RecordDefaultsPassedFromChecklist(t *testing.T) {
	store := &memInspections{}
	clock := clockz.NewFakeClock()
	gate := NewGate(store).WithClock(clock)
	tripID := int64(12)
	ctx := context.Background()

	rec, err := gate.Record(ctx, InspectionInput{
		TripID:   &tripID,
		DriverID: 7,
		Items:    map[string]bool{"brakes": true, " tyres ": true, "": false},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !rec.Passed {
		t.Fatalf("all items checked should pass")
	}
	if rec.Source != "manual" {
		t.Fatalf("default source: got %q", rec.Source)
	}
	if _, ok := rec.Items["tyres"]; !ok || len(rec.Items) != 2 {
		t.Fatalf("items not normalized: %v", rec.Items)
	}
	if !rec.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("created at should come from the gate clock")
	}

	ok, err := gate.IsInspectionSatisfied(ctx, tripID)
	if err != nil || !ok {
		t.Fatalf("expected inspection satisfied, got %v %v", ok, err)
	}

	if _, err := gate.Record(ctx, InspectionInput{TripID: &tripID, DriverID: 7, Items: map[string]bool{"lights": false}}); err != nil {
		t.Fatalf("second record: %v", err)
	}
	ok, _ = gate.IsInspectionSatisfied(ctx, tripID)
	if ok {
		t.Fatalf("latest failing inspection should not satisfy the gate")
	}
}

func TestGate_Validation(t *testing.T) {
	gate := NewGate(&memInspections{})
	bad := int64(-1)
	ctx := context.Background()

	if _, err := gate.Record(ctx, InspectionInput{}); !domain.IsValidation(err) {
		t.Fatalf("missing driver: expected validation error, got %v", err)
	}
	if _, err := gate.Record(ctx, InspectionInput{DriverID: 7, TripID: &bad}); !domain.IsValidation(err) {
		t.Fatalf("negative trip id: expected validation error, got %v", err)
	}
	rec, err := gate.Record(ctx, InspectionInput{DriverID: 7, Source: "Depot"})
	if err != nil {
		t.Fatalf("depot inspection without trip: %v", err)
	}
	if rec.TripID != nil || rec.Source != "depot" {
		t.Fatalf("unexpected depot record: %+v", rec)
	}
}

func TestGate_NilAndFailingStore(t *testing.T) {
	var gate *Gate
	ok, err := gate.IsInspectionSatisfied(context.Background(), 1)
	if ok || err != nil {
		t.Fatalf("nil gate should report unsatisfied without error")
	}
	gate.RecordBestEffort(context.Background(), InspectionInput{DriverID: 7})

	failing := NewGate(&memInspections{err: errors.New("disk full")})
	if _, err := failing.Record(context.Background(), InspectionInput{DriverID: 7}); err == nil {
		t.Fatalf("expected store error")
	}
	failing.RecordBestEffort(context.Background(), InspectionInput{DriverID: 7})
}
