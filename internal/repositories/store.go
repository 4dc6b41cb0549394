package repositories

import (
	"context"
	"database/sql"
	"time"

	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"

	"gorm.io/gorm"
)

// Store is everything the services need from persistence.
type Store interface {
	lifecycle.TripStore
	lifecycle.ShiftSource
	lifecycle.ThresholdSource
	lifecycle.InspectionStore
	lifecycle.IncidentSink
	ListTripsForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]models.Trip, error)
}

// MySQLStore groups the database/sql repositories.
type MySQLStore struct {
	TripRepository
	ShiftRepository
	FatigueRepository
	RecordRepository
}

func NewMySQLStore(db *sql.DB) MySQLStore {
	return MySQLStore{
		TripRepository:    TripRepository{DB: db},
		ShiftRepository:   ShiftRepository{DB: db},
		FatigueRepository: FatigueRepository{DB: db},
		RecordRepository:  RecordRepository{DB: db},
	}
}

func NewGormStore(db *gorm.DB) GormStore {
	return GormStore{DB: db}
}

var (
	_ Store = MySQLStore{}
	_ Store = GormStore{}
)
