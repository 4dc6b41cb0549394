package services

import (
	"context"
	"sync"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

type memStore struct {
	mu          sync.Mutex
	trips       map[int64]models.Trip
	shifts      map[int64][]models.ShiftInterval
	thresholds  map[int64]models.FatigueThresholds
	inspections []models.InspectionRecord
	incidents   chan models.IncidentReport
}

func newMemStore() *memStore {
	return &memStore{
		trips:      map[int64]models.Trip{},
		shifts:     map[int64][]models.ShiftInterval{},
		thresholds: map[int64]models.FatigueThresholds{},
		incidents:  make(chan models.IncidentReport, 4),
	}
}

func (m *memStore) GetTrip(_ context.Context, id int64) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return t, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (m *memStore) CompareAndSwapStatus(_ context.Context, u models.StatusUpdate, expected domain.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[u.TripID]
	if !ok || t.Status != expected {
		return false, nil
	}
	m.trips[u.TripID] = u.Apply(t)
	return true, nil
}

func (m *memStore) ListTripsForDriver(_ context.Context, driverID int64, from, to time.Time) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.DriverID == driverID && !t.ScheduledDeparture.Before(from) && t.ScheduledDeparture.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListShifts(_ context.Context, driverID int64, _, _ time.Time) ([]models.ShiftInterval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shifts[driverID], nil
}

func (m *memStore) GetThresholds(_ context.Context, companyID int64) (models.FatigueThresholds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	th := m.thresholds[companyID]
	th.CompanyID = companyID
	return th, nil
}

func (m *memStore) InsertInspection(_ context.Context, rec models.InspectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspections = append(m.inspections, rec)
	return nil
}

func (m *memStore) LatestInspection(_ context.Context, tripID int64) (models.InspectionRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.inspections) - 1; i >= 0; i-- {
		if r := m.inspections[i]; r.TripID != nil && *r.TripID == tripID {
			return r, true, nil
		}
	}
	return models.InspectionRecord{}, false, nil
}

func (m *memStore) InsertIncident(_ context.Context, rep models.IncidentReport) error {
	m.incidents <- rep
	return nil
}

var (
	driver7 = domain.RequestContext{UserID: 70, DriverID: 7, CompanyID: 1, Role: domain.RoleDriver}
	driver8 = domain.RequestContext{UserID: 80, DriverID: 8, CompanyID: 1, Role: domain.RoleDriver}
	admin   = domain.RequestContext{UserID: 1, CompanyID: 1, Role: domain.RoleAdmin}
)
