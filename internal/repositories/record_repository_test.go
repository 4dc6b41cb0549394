package repositories

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestRecordRepository_InspectionRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	tripID := int64(12)
	created := time.Date(2025, 3, 10, 9, 20, 0, 0, time.UTC)
	rec := models.InspectionRecord{
		ID: id, TripID: &tripID, DriverID: 7,
		Items: map[string]bool{"brakes": true}, Passed: true, Source: "manual", CreatedAt: created,
	}

	mock.ExpectExec("INSERT INTO trip_inspections").
		WithArgs(id.String(), int64(12), int64(7), `{"brakes":true}`, true, "manual", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM trip_inspections").WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "driver_id", "items", "passed", "source", "created_at"}).
			AddRow(id.String(), 12, 7, []byte(`{"brakes":true}`), true, "manual", created))
	mock.ExpectQuery("FROM trip_inspections").WithArgs(int64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "driver_id", "items", "passed", "source", "created_at"}))

	repo := RecordRepository{DB: db}
	if err := repo.InsertInspection(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := repo.LatestInspection(context.Background(), 12)
	if err != nil || !ok {
		t.Fatalf("latest: got (%v, %v)", ok, err)
	}
	if got.ID != id || !got.Items["brakes"] || got.TripID == nil || *got.TripID != 12 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if _, ok, err := repo.LatestInspection(context.Background(), 13); ok || err != nil {
		t.Fatalf("missing inspection: got (%v, %v)", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordRepository_InsertIncidentWithoutTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rep := models.IncidentReport{
		ID: uuid.New(), DriverID: 7, Description: "depot gate broken",
		Severity: models.SeverityLow, CreatedAt: time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
	}
	mock.ExpectExec("INSERT INTO trip_incidents").
		WithArgs(rep.ID.String(), nil, int64(7), "depot gate broken", "low", rep.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (RecordRepository{DB: db}).InsertIncident(context.Background(), rep); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
