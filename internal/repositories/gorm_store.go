package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	intconfig "fleetdesk/internal/config"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tripRow struct {
	ID                 int64 `gorm:"primaryKey"`
	CompanyID          int64 `gorm:"index"`
	DriverID           int64 `gorm:"index"`
	BusID              int64
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	ActualDeparture    *time.Time
	ActualArrival      *time.Time
	Status             string `gorm:"size:32;index"`
	DelayReason        string
}

func (tripRow) TableName() string { return "trips" }

func (r tripRow) toModel() models.Trip {
	return models.Trip{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		DriverID:           r.DriverID,
		BusID:              r.BusID,
		ScheduledDeparture: r.ScheduledDeparture,
		ScheduledArrival:   r.ScheduledArrival,
		ActualDeparture:    r.ActualDeparture,
		ActualArrival:      r.ActualArrival,
		Status:             domain.Status(r.Status),
		DelayReason:        r.DelayReason,
	}
}

type shiftRow struct {
	ID        int64 `gorm:"primaryKey"`
	DriverID  int64 `gorm:"index"`
	StartTime time.Time
	EndTime   *time.Time
}

func (shiftRow) TableName() string { return "driver_shifts" }

type fatigueRow struct {
	CompanyID               int64 `gorm:"primaryKey"`
	MaxContinuousDriveHours *float64
	MinRestHours            *float64
	OverrideFitHours        string
}

func (fatigueRow) TableName() string { return "fatigue_settings" }

type inspectionRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	TripID    *int64 `gorm:"index"`
	DriverID  int64
	Items     string `gorm:"type:text"`
	Passed    bool
	Source    string
	CreatedAt time.Time
}

func (inspectionRow) TableName() string { return "trip_inspections" }

type incidentRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	TripID      *int64 `gorm:"index"`
	DriverID    int64
	Description string
	Severity    string
	CreatedAt   time.Time
}

func (incidentRow) TableName() string { return "trip_incidents" }

// GormStore implements every store interface on PostgreSQL through gorm.
type GormStore struct {
	DB *gorm.DB
}

func (s GormStore) db(ctx context.Context) (*gorm.DB, error) {
	db := s.DB
	if db == nil {
		db = intconfig.GormDB
	}
	if db == nil {
		return nil, domain.InternalError{Msg: "database not connected"}
	}
	return db.WithContext(ctx), nil
}

// AutoMigrate creates the tables used by the store.
func (s GormStore) AutoMigrate(ctx context.Context) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	return db.AutoMigrate(&tripRow{}, &shiftRow{}, &fatigueRow{}, &inspectionRow{}, &incidentRow{})
}

func (s GormStore) GetTrip(ctx context.Context, id int64) (models.Trip, error) {
	db, err := s.db(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	var row tripRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Trip{}, fmt.Errorf("get trip %d: %w", id, err)
	}
	return row.toModel(), nil
}

func (s GormStore) CompareAndSwapStatus(ctx context.Context, update models.StatusUpdate, expected domain.Status) (bool, error) {
	db, err := s.db(ctx)
	if err != nil {
		return false, err
	}
	changes := map[string]any{"status": string(update.NewStatus)}
	if update.ActualDeparture != nil {
		changes["actual_departure"] = *update.ActualDeparture
	}
	if update.ActualArrival != nil {
		changes["actual_arrival"] = *update.ActualArrival
	}
	if update.DelayReason != "" {
		changes["delay_reason"] = update.DelayReason
	}

	res := db.Model(&tripRow{}).
		Where("id = ? AND status = ?", update.TripID, string(expected)).
		Updates(changes)
	if res.Error != nil {
		return false, fmt.Errorf("update trip %d status: %w", update.TripID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s GormStore) ListTripsForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]models.Trip, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var rows []tripRow
	if err := db.
		Where("driver_id = ? AND scheduled_departure >= ? AND scheduled_departure < ?", driverID, from, to).
		Order("scheduled_departure ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Trip, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s GormStore) ListShifts(ctx context.Context, driverID int64, from, to time.Time) ([]models.ShiftInterval, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var rows []shiftRow
	if err := db.
		Where("driver_id = ? AND start_time < ? AND (end_time IS NULL OR end_time > ?)", driverID, to, from).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.ShiftInterval, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ShiftInterval{DriverID: r.DriverID, Start: r.StartTime, End: r.EndTime})
	}
	return out, nil
}

func (s GormStore) GetThresholds(ctx context.Context, companyID int64) (models.FatigueThresholds, error) {
	th := models.FatigueThresholds{CompanyID: companyID}
	db, err := s.db(ctx)
	if err != nil {
		return th, err
	}
	var row fatigueRow
	if err := db.Where("company_id = ?", companyID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return th, nil
		}
		return th, fmt.Errorf("fatigue settings for company %d: %w", companyID, err)
	}
	if row.MaxContinuousDriveHours != nil {
		th.MaxContinuousDriveHours = *row.MaxContinuousDriveHours
	}
	if row.MinRestHours != nil {
		th.MinRestHours = *row.MinRestHours
	}
	th.OverrideFitHours = row.OverrideFitHours
	return th, nil
}

func (s GormStore) InsertInspection(ctx context.Context, rec models.InspectionRecord) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	return db.Create(&inspectionRow{
		ID:        rec.ID.String(),
		TripID:    rec.TripID,
		DriverID:  rec.DriverID,
		Items:     string(items),
		Passed:    rec.Passed,
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt,
	}).Error
}

func (s GormStore) LatestInspection(ctx context.Context, tripID int64) (models.InspectionRecord, bool, error) {
	var rec models.InspectionRecord
	db, err := s.db(ctx)
	if err != nil {
		return rec, false, err
	}
	var row inspectionRow
	if err := db.Where("trip_id = ?", tripID).Order("created_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, false, nil
		}
		return rec, false, err
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return rec, false, fmt.Errorf("inspection id %q: %w", row.ID, err)
	}
	rec = models.InspectionRecord{
		ID:        id,
		TripID:    row.TripID,
		DriverID:  row.DriverID,
		Items:     map[string]bool{},
		Passed:    row.Passed,
		Source:    row.Source,
		CreatedAt: row.CreatedAt,
	}
	if row.Items != "" {
		if err := json.Unmarshal([]byte(row.Items), &rec.Items); err != nil {
			return rec, false, fmt.Errorf("decode checklist: %w", err)
		}
	}
	return rec, true, nil
}

func (s GormStore) InsertIncident(ctx context.Context, rep models.IncidentReport) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	return db.Create(&incidentRow{
		ID:          rep.ID.String(),
		TripID:      rep.TripID,
		DriverID:    rep.DriverID,
		Description: rep.Description,
		Severity:    string(rep.Severity),
		CreatedAt:   rep.CreatedAt,
	}).Error
}
