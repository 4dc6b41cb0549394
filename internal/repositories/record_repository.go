package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	intconfig "fleetdesk/internal/config"
	intdb "fleetdesk/internal/db"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"

	"github.com/google/uuid"
)

// RecordRepository stores inspections and incidents. Both are insert-only.
type RecordRepository struct {
	DB *sql.DB
}

func (r RecordRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RecordRepository) InsertInspection(ctx context.Context, rec models.InspectionRecord) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO trip_inspections (id, trip_id, driver_id, items, passed, source, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		rec.ID.String(), intdb.NullInt(rec.TripID), rec.DriverID, string(items), rec.Passed, rec.Source, rec.CreatedAt,
	)
	return err
}

func (r RecordRepository) LatestInspection(ctx context.Context, tripID int64) (models.InspectionRecord, bool, error) {
	var rec models.InspectionRecord
	db := r.db()
	if db == nil {
		return rec, false, nil
	}

	var (
		id     string
		trip   sql.NullInt64
		items  []byte
		source sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, trip_id, driver_id, items, passed, source, created_at
		FROM trip_inspections
		WHERE trip_id=?
		ORDER BY created_at DESC
		LIMIT 1`, tripID).Scan(&id, &trip, &rec.DriverID, &items, &rec.Passed, &source, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}

	rec.ID, err = uuid.Parse(id)
	if err != nil {
		return rec, false, fmt.Errorf("inspection id %q: %w", id, err)
	}
	rec.TripID = intdb.IntOrNil(trip)
	rec.Source = source.String
	rec.Items = map[string]bool{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &rec.Items); err != nil {
			return rec, false, fmt.Errorf("decode checklist: %w", err)
		}
	}
	return rec, true, nil
}

func (r RecordRepository) InsertIncident(ctx context.Context, rep models.IncidentReport) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO trip_incidents (id, trip_id, driver_id, description, severity, created_at)
		VALUES (?,?,?,?,?,?)`,
		rep.ID.String(), intdb.NullInt(rep.TripID), rep.DriverID, rep.Description, string(rep.Severity), rep.CreatedAt,
	)
	return err
}
