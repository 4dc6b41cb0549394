package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "fleetdesk/internal/config"
	intdb "fleetdesk/internal/db"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

const tripColumns = `id, company_id, driver_id, bus_id, scheduled_departure, scheduled_arrival,
	actual_departure, actual_arrival, status, COALESCE(delay_reason,'')`

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var (
		t        models.Trip
		dep, arr sql.NullTime
		status   string
	)
	if err := row.Scan(
		&t.ID,
		&t.CompanyID,
		&t.DriverID,
		&t.BusID,
		&t.ScheduledDeparture,
		&t.ScheduledArrival,
		&dep,
		&arr,
		&status,
		&t.DelayReason,
	); err != nil {
		return t, err
	}
	t.ActualDeparture = intdb.TimeOrNil(dep)
	t.ActualArrival = intdb.TimeOrNil(arr)
	t.Status = domain.Status(status)
	return t, nil
}

// GetTrip loads one trip by id.
func (r TripRepository) GetTrip(ctx context.Context, id int64) (models.Trip, error) {
	db := r.db()
	if db == nil {
		return models.Trip{}, domain.InternalError{Msg: "database not connected"}
	}

	row := db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("get trip %d: %w", id, err)
	}
	return t, nil
}

// CompareAndSwapStatus applies update only while the row still has the
// expected status. Nil timestamps and an empty reason keep stored values.
func (r TripRepository) CompareAndSwapStatus(ctx context.Context, update models.StatusUpdate, expected domain.Status) (bool, error) {
	db := r.db()
	if db == nil {
		return false, domain.InternalError{Msg: "database not connected"}
	}

	res, err := db.ExecContext(ctx, `
		UPDATE trips
		SET status=?,
		    actual_departure=COALESCE(?, actual_departure),
		    actual_arrival=COALESCE(?, actual_arrival),
		    delay_reason=COALESCE(?, delay_reason)
		WHERE id=? AND status=?`,
		string(update.NewStatus),
		intdb.NullTime(update.ActualDeparture),
		intdb.NullTime(update.ActualArrival),
		intdb.NullIfEmpty(update.DelayReason),
		update.TripID,
		string(expected),
	)
	if err != nil {
		return false, fmt.Errorf("update trip %d status: %w", update.TripID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListTripsForDriver returns a driver's trips departing in [from, to).
func (r TripRepository) ListTripsForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]models.Trip, error) {
	db := r.db()
	if db == nil {
		return []models.Trip{}, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE driver_id=? AND scheduled_departure>=? AND scheduled_departure<?
		ORDER BY scheduled_departure ASC, id ASC`, driverID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
