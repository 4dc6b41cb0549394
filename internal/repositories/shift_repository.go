package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "fleetdesk/internal/config"
	intdb "fleetdesk/internal/db"
	"fleetdesk/internal/domain/models"
)

type ShiftRepository struct {
	DB *sql.DB
}

func (r ShiftRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListShifts returns shifts overlapping [from, to); open shifts always overlap
// when they started before to.
func (r ShiftRepository) ListShifts(ctx context.Context, driverID int64, from, to time.Time) ([]models.ShiftInterval, error) {
	db := r.db()
	if db == nil {
		return []models.ShiftInterval{}, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT driver_id, start_time, end_time
		FROM driver_shifts
		WHERE driver_id=? AND start_time<? AND (end_time IS NULL OR end_time>?)
		ORDER BY start_time ASC`, driverID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ShiftInterval{}
	for rows.Next() {
		var (
			s   models.ShiftInterval
			end sql.NullTime
		)
		if err := rows.Scan(&s.DriverID, &s.Start, &end); err != nil {
			return out, err
		}
		s.End = intdb.TimeOrNil(end)
		out = append(out, s)
	}
	return out, rows.Err()
}
