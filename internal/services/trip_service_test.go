package services

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
)

func newTripService(t *testing.T, store *memStore) TripService {
	t.Helper()
	m := lifecycle.NewMachine(store)
	t.Cleanup(func() { _ = m.Close() })
	return TripService{Machine: m, Trips: store, Location: time.UTC}
}

func TestTripService_OwnershipChecks(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	store.trips[1] = models.Trip{
		ID: 1, CompanyID: 1, DriverID: 7,
		ScheduledDeparture: now.Add(10 * time.Minute), ScheduledArrival: now.Add(2 * time.Hour),
		Status: models.StatusScheduled,
	}
	store.trips[2] = models.Trip{ID: 2, CompanyID: 2, DriverID: 7, Status: models.StatusScheduled}
	svc := newTripService(t, store)
	ctx := context.Background()

	if _, err := svc.Start(ctx, driver8, 1); !domain.IsForbidden(err) {
		t.Fatalf("other driver: expected forbidden, got %v", err)
	}
	if _, err := svc.Trip(ctx, driver7, 2); !domain.IsNotFound(err) {
		t.Fatalf("other company: expected not found, got %v", err)
	}
	if _, err := svc.Cancel(ctx, driver7, 1); !domain.IsForbidden(err) {
		t.Fatalf("driver cancel: expected forbidden, got %v", err)
	}

	trip, err := svc.Start(ctx, driver7, 1)
	if err != nil {
		t.Fatalf("owner start: %v", err)
	}
	if trip.Status != models.StatusInProgress {
		t.Fatalf("status: got %s", trip.Status)
	}
	if _, err := svc.MarkDelayed(ctx, admin, 1, "traffic"); err != nil {
		t.Fatalf("admin delay: %v", err)
	}
}

func TestTripService_TodayTrips(t *testing.T) {
	store := newMemStore()
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store.trips[1] = models.Trip{ID: 1, DriverID: 7, ScheduledDeparture: day.Add(-2 * time.Hour)}
	store.trips[2] = models.Trip{ID: 2, DriverID: 7, ScheduledDeparture: day.Add(20 * time.Hour)}
	store.trips[3] = models.Trip{ID: 3, DriverID: 8, ScheduledDeparture: day}
	svc := newTripService(t, store)

	trips, err := svc.TodayTrips(context.Background(), driver7, 7, day)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(trips) != 1 || trips[0].ID != 1 {
		t.Fatalf("unexpected trips: %+v", trips)
	}
	if _, err := svc.TodayTrips(context.Background(), driver7, 8, day); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for another driver, got %v", err)
	}
}

func TestRecordService_IncidentsReachSink(t *testing.T) {
	store := newMemStore()
	store.trips[1] = models.Trip{ID: 1, CompanyID: 1, DriverID: 7, Status: models.StatusInProgress}
	trips := newTripService(t, store)
	records := RecordService{Gate: lifecycle.NewGate(store), Incidents: store, Trips: trips}
	if err := records.Register(trips.Machine); err != nil {
		t.Fatalf("register: %v", err)
	}

	tripID := int64(1)
	rep, err := trips.ReportIncident(context.Background(), driver7, &tripID, "mirror cracked", models.SeverityHigh)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	select {
	case got := <-store.incidents:
		if got.ID != rep.ID || got.DriverID != 7 || got.Severity != models.SeverityHigh {
			t.Fatalf("unexpected stored incident: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("incident was not stored")
	}
	if store.trips[1].Status != models.StatusInProgress {
		t.Fatalf("incident must not change trip status")
	}
}

func TestRecordService_Inspect(t *testing.T) {
	store := newMemStore()
	store.trips[1] = models.Trip{ID: 1, CompanyID: 1, DriverID: 7, Status: models.StatusScheduled}
	trips := newTripService(t, store)
	records := RecordService{Gate: lifecycle.NewGate(store), Incidents: store, Trips: trips}
	ctx := context.Background()
	tripID := int64(1)

	rec, err := records.Inspect(ctx, driver7, lifecycle.InspectionInput{TripID: &tripID, DriverID: 99, Items: map[string]bool{"brakes": true}})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if rec.DriverID != 7 {
		t.Fatalf("driver id should come from the caller, got %d", rec.DriverID)
	}
	ok, err := records.InspectionStatus(ctx, driver7, 1)
	if err != nil || !ok {
		t.Fatalf("inspection status: got (%v, %v)", ok, err)
	}
	if _, err := records.InspectionStatus(ctx, driver8, 1); !domain.IsForbidden(err) {
		t.Fatalf("other driver: expected forbidden, got %v", err)
	}
}
