package lifecycle

import (
	"context"
	"sync"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

type memTrips struct {
	mu    sync.Mutex
	trips map[int64]models.Trip
	// beforeSwap runs inside CompareAndSwapStatus before the status check.
	beforeSwap func()
}

func newMemTrips(trips ...models.Trip) *memTrips {
	m := &memTrips{trips: map[int64]models.Trip{}}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	return m
}

func (m *memTrips) GetTrip(_ context.Context, id int64) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (m *memTrips) CompareAndSwapStatus(_ context.Context, u models.StatusUpdate, expected domain.Status) (bool, error) {
	if m.beforeSwap != nil {
		m.beforeSwap()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[u.TripID]
	if !ok || t.Status != expected {
		return false, nil
	}
	m.trips[u.TripID] = u.Apply(t)
	return true, nil
}

func (m *memTrips) set(t models.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[t.ID] = t
}

func (m *memTrips) get(id int64) models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trips[id]
}

type memInspections struct {
	mu   sync.Mutex
	recs []models.InspectionRecord
	err  error
}

func (m *memInspections) InsertInspection(_ context.Context, rec models.InspectionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memInspections) LatestInspection(_ context.Context, tripID int64) (models.InspectionRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.recs) - 1; i >= 0; i-- {
		if m.recs[i].TripID != nil && *m.recs[i].TripID == tripID {
			return m.recs[i], true, nil
		}
	}
	return models.InspectionRecord{}, false, nil
}
