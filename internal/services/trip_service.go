package services

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"
)

// TripLister lists a driver's trips for the dashboard.
type TripLister interface {
	ListTripsForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]models.Trip, error)
}

// TripService checks that the caller may act on a trip before handing the
// command to the state machine.
type TripService struct {
	Machine  *lifecycle.Machine
	Trips    TripLister
	Location *time.Location
}

func (s TripService) authorize(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error) {
	trip, err := s.Machine.Trip(ctx, tripID)
	if err != nil {
		return trip, err
	}
	if rc.CompanyID > 0 && trip.CompanyID > 0 && int64(rc.CompanyID) != trip.CompanyID {
		return trip, domain.NotFoundError{Resource: "trip"}
	}
	if rc.IsAdmin() {
		return trip, nil
	}
	if rc.DriverID <= 0 || int64(rc.DriverID) != trip.DriverID {
		return trip, domain.ForbiddenError{Msg: "trip is assigned to another driver"}
	}
	return trip, nil
}

func (s TripService) Trip(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error) {
	return s.authorize(ctx, rc, tripID)
}

func (s TripService) Start(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error) {
	if _, err := s.authorize(ctx, rc, tripID); err != nil {
		return models.Trip{}, err
	}
	return s.Machine.Start(ctx, tripID)
}

func (s TripService) Complete(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error) {
	if _, err := s.authorize(ctx, rc, tripID); err != nil {
		return models.Trip{}, err
	}
	return s.Machine.Complete(ctx, tripID)
}

func (s TripService) MarkDelayed(ctx context.Context, rc domain.RequestContext, tripID int64, reason string) (models.Trip, error) {
	if _, err := s.authorize(ctx, rc, tripID); err != nil {
		return models.Trip{}, err
	}
	return s.Machine.MarkDelayed(ctx, tripID, reason)
}

// Cancel is restricted to administrators.
func (s TripService) Cancel(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error) {
	if !rc.IsAdmin() {
		return models.Trip{}, domain.ForbiddenError{Msg: "only administrators can cancel trips"}
	}
	if _, err := s.authorize(ctx, rc, tripID); err != nil {
		return models.Trip{}, err
	}
	return s.Machine.Cancel(ctx, tripID)
}

// ReportIncident accepts reports with or without a trip.
func (s TripService) ReportIncident(ctx context.Context, rc domain.RequestContext, tripID *int64, details string, severity models.Severity) (models.IncidentReport, error) {
	if tripID != nil {
		if _, err := s.authorize(ctx, rc, *tripID); err != nil {
			return models.IncidentReport{}, err
		}
	}
	return s.Machine.ReportIncident(ctx, tripID, int64(rc.DriverID), details, severity)
}

// TodayTrips lists the driver's trips departing on the given day.
func (s TripService) TodayTrips(ctx context.Context, rc domain.RequestContext, driverID int64, day time.Time) ([]models.Trip, error) {
	if !rc.IsAdmin() && int64(rc.DriverID) != driverID {
		return nil, domain.ForbiddenError{Msg: "cannot view another driver's trips"}
	}
	if s.Trips == nil {
		return []models.Trip{}, nil
	}
	window := lifecycle.DayWindowFor(day, s.Location)
	trips, err := s.Trips.ListTripsForDriver(ctx, driverID, window.Start, window.End)
	if err != nil {
		utils.LogEvent(rc.RequestID, "trip", "list_error", err.Error())
		return nil, fmt.Errorf("list trips for driver %d: %w", driverID, err)
	}
	return trips, nil
}
