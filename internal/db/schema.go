package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// HasTable reports whether table exists in the current MySQL schema.
// Lookup errors count as "missing".
func HasTable(ctx context.Context, q Querier, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// HasColumn reports whether table has column in the current MySQL schema.
func HasColumn(ctx context.Context, q Querier, table, column string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1`, table, column).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

type tableDDL struct {
	name string
	ddl  string
}

var mysqlTables = []tableDDL{
	{"trips", `CREATE TABLE trips (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		company_id BIGINT NOT NULL,
		driver_id BIGINT NOT NULL,
		bus_id BIGINT NOT NULL,
		scheduled_departure DATETIME NOT NULL,
		scheduled_arrival DATETIME NOT NULL,
		actual_departure DATETIME NULL,
		actual_arrival DATETIME NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'Scheduled',
		delay_reason VARCHAR(255) NULL,
		KEY idx_trips_driver_departure (driver_id, scheduled_departure)
	)`},
	{"driver_shifts", `CREATE TABLE driver_shifts (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		driver_id BIGINT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NULL,
		KEY idx_driver_shifts_driver_start (driver_id, start_time)
	)`},
	{"fatigue_settings", `CREATE TABLE fatigue_settings (
		company_id BIGINT PRIMARY KEY,
		max_continuous_drive_hours DOUBLE NULL,
		min_rest_hours DOUBLE NULL,
		override_fit_hours VARCHAR(32) NULL
	)`},
	{"trip_inspections", `CREATE TABLE trip_inspections (
		id CHAR(36) PRIMARY KEY,
		trip_id BIGINT NULL,
		driver_id BIGINT NOT NULL,
		items JSON NOT NULL,
		passed BOOLEAN NOT NULL,
		source VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_trip_inspections_trip (trip_id, created_at)
	)`},
	{"trip_incidents", `CREATE TABLE trip_incidents (
		id CHAR(36) PRIMARY KEY,
		trip_id BIGINT NULL,
		driver_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		severity VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_trip_incidents_trip (trip_id)
	)`},
}

// EnsureSchema creates any missing tables. Existing tables are left alone.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, t := range mysqlTables {
		if HasTable(ctx, q, t.name) {
			continue
		}
		if _, err := q.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	// trips tables created before delays were tracked lack the column.
	if !HasColumn(ctx, q, "trips", "delay_reason") {
		if _, err := q.ExecContext(ctx, `ALTER TABLE trips ADD COLUMN delay_reason VARCHAR(255) NULL`); err != nil {
			return fmt.Errorf("add trips.delay_reason: %w", err)
		}
	}
	return nil
}
