package services

import (
	"context"
	"fmt"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"
)

// RecordService handles the inspection workflow and connects the machine's
// incident events to the incident sink.
type RecordService struct {
	Gate      *lifecycle.Gate
	Incidents lifecycle.IncidentSink
	Trips     TripService
}

// Register wires the async sinks onto the machine.
func (s RecordService) Register(m *lifecycle.Machine) error {
	if s.Incidents != nil {
		if err := m.OnIncident(func(ctx context.Context, rep models.IncidentReport) error {
			if err := s.Incidents.InsertIncident(context.WithoutCancel(ctx), rep); err != nil {
				utils.LogEvent(utils.RequestIDFromContext(ctx), "incident", "insert_error", err.Error())
				return err
			}
			return nil
		}); err != nil {
			return fmt.Errorf("register incident sink: %w", err)
		}
	}
	return m.OnRejected(func(ctx context.Context, ev lifecycle.TransitionEvent) error {
		utils.LogEvent(utils.RequestIDFromContext(ctx), "trip", "rejected",
			fmt.Sprintf("trip_id=%d action=%s from=%s reason=%s", ev.TripID, ev.Action, ev.From, ev.Reason))
		return nil
	})
}

// Inspect records a pre-trip or depot inspection for the caller.
func (s RecordService) Inspect(ctx context.Context, rc domain.RequestContext, in lifecycle.InspectionInput) (models.InspectionRecord, error) {
	if in.TripID != nil {
		if _, err := s.Trips.Trip(ctx, rc, *in.TripID); err != nil {
			return models.InspectionRecord{}, err
		}
	}
	if !rc.IsAdmin() || in.DriverID == 0 {
		in.DriverID = int64(rc.DriverID)
	}
	return s.Gate.Record(ctx, in)
}

// InspectionStatus reports whether the trip has a passing inspection.
func (s RecordService) InspectionStatus(ctx context.Context, rc domain.RequestContext, tripID int64) (bool, error) {
	if _, err := s.Trips.Trip(ctx, rc, tripID); err != nil {
		return false, err
	}
	return s.Gate.IsInspectionSatisfied(ctx, tripID)
}
