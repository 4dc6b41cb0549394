package lifecycle

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/utils"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Action is a driver-facing trip command.
type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionDelay    Action = "delay"
	ActionReport   Action = "report"
	ActionManifest Action = "manifest"
	ActionCancel   Action = "cancel"
)

// Observability keys for the trip state machine.
const (
	TransitionsTotal = metricz.Key("trip.transitions.total")
	RejectionsTotal  = metricz.Key("trip.rejections.total")
	IncidentsTotal   = metricz.Key("trip.incidents.total")

	TransitionSpan = tracez.Key("trip.transition")

	TagAction = tracez.Tag("trip.action")
	TagTripID = tracez.Tag("trip.id")
	TagReason = tracez.Tag("trip.reason")

	EventStatusChanged = hookz.Key("trip.status_changed")
	EventRejected      = hookz.Key("trip.rejected")
	EventIncident      = hookz.Key("trip.incident")
)

var rejectionCounters = map[domain.Reason]metricz.Key{
	domain.ReasonOutsideStartWindow: metricz.Key("trip.rejections.outside_start_window"),
	domain.ReasonOutsideEndWindow:   metricz.Key("trip.rejections.outside_end_window"),
	domain.ReasonInvalidTransition:  metricz.Key("trip.rejections.invalid_transition"),
	domain.ReasonInvalidTimestamp:   metricz.Key("trip.rejections.invalid_timestamp"),
}

// TransitionEvent is emitted after every accepted or rejected transition.
type TransitionEvent struct {
	TripID    int64
	Action    Action
	From      domain.Status
	Update    models.StatusUpdate
	Reason    domain.Reason
	Timestamp time.Time
}

// Machine validates and applies trip transitions. It keeps no trip state of
// its own; every write is a compare-and-swap on the prior status.
type Machine struct {
	trips     TripStore
	clock     clockz.Clock
	metrics   *metricz.Registry
	tracer    *tracez.Tracer
	hooks     *hookz.Hooks[TransitionEvent]
	incidents *hookz.Hooks[models.IncidentReport]
}

func NewMachine(trips TripStore) *Machine {
	metrics := metricz.New()
	metrics.Counter(TransitionsTotal)
	metrics.Counter(RejectionsTotal)
	metrics.Counter(IncidentsTotal)
	for _, key := range rejectionCounters {
		metrics.Counter(key)
	}

	return &Machine{
		trips:     trips,
		clock:     clockz.RealClock,
		metrics:   metrics,
		tracer:    tracez.New(),
		hooks:     hookz.New[TransitionEvent](),
		incidents: hookz.New[models.IncidentReport](),
	}
}

// WithClock replaces the clock used for window checks and timestamps.
func (m *Machine) WithClock(clock clockz.Clock) *Machine {
	m.clock = clock
	return m
}

func (m *Machine) Metrics() *metricz.Registry { return m.metrics }

func (m *Machine) Tracer() *tracez.Tracer { return m.tracer }

// Now is the machine's notion of the current time.
func (m *Machine) Now() time.Time { return m.clock.Now() }

// OnStatusChanged registers an async handler for accepted transitions.
func (m *Machine) OnStatusChanged(handler func(context.Context, TransitionEvent) error) error {
	_, err := m.hooks.Hook(EventStatusChanged, handler)
	return err
}

// OnRejected registers an async handler for refused transitions.
func (m *Machine) OnRejected(handler func(context.Context, TransitionEvent) error) error {
	_, err := m.hooks.Hook(EventRejected, handler)
	return err
}

// OnIncident registers the incident write sink.
func (m *Machine) OnIncident(handler func(context.Context, models.IncidentReport) error) error {
	_, err := m.incidents.Hook(EventIncident, handler)
	return err
}

func (m *Machine) Close() error {
	if m.tracer != nil {
		m.tracer.Close()
	}
	m.hooks.Close()
	m.incidents.Close()
	return nil
}

// Trip loads a trip without changing it.
func (m *Machine) Trip(ctx context.Context, tripID int64) (models.Trip, error) {
	return m.trips.GetTrip(ctx, tripID)
}

// Start moves a Scheduled trip (or a Delayed trip that never departed) to
// InProgress once the start window is open.
func (m *Machine) Start(ctx context.Context, tripID int64) (models.Trip, error) {
	return m.transition(ctx, ActionStart, tripID, func(trip models.Trip, now time.Time) (models.StatusUpdate, error) {
		switch {
		case trip.Status == models.StatusScheduled:
		case trip.Status == models.StatusDelayed && trip.ActualDeparture == nil:
		default:
			return models.StatusUpdate{}, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
		}
		open, err := IsWithinStartWindow(now, trip.ScheduledDeparture)
		if err != nil {
			return models.StatusUpdate{}, withTrip(err, trip)
		}
		if !open {
			return models.StatusUpdate{}, domain.Reject(domain.ReasonOutsideStartWindow, trip.ID, trip.Status)
		}
		return models.StatusUpdate{
			TripID:          trip.ID,
			NewStatus:       models.StatusInProgress,
			ActualDeparture: &now,
		}, nil
	})
}

// Complete moves an InProgress trip (or a Delayed trip that already
// departed) to Completed while inside the end window.
func (m *Machine) Complete(ctx context.Context, tripID int64) (models.Trip, error) {
	return m.transition(ctx, ActionComplete, tripID, func(trip models.Trip, now time.Time) (models.StatusUpdate, error) {
		switch {
		case trip.Status == models.StatusInProgress:
		case trip.Status == models.StatusDelayed && trip.ActualDeparture != nil:
		default:
			return models.StatusUpdate{}, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
		}
		open, err := IsWithinEndWindow(now, trip.ScheduledArrival)
		if err != nil {
			return models.StatusUpdate{}, withTrip(err, trip)
		}
		if !open {
			return models.StatusUpdate{}, domain.Reject(domain.ReasonOutsideEndWindow, trip.ID, trip.Status)
		}
		return models.StatusUpdate{
			TripID:        trip.ID,
			NewStatus:     models.StatusCompleted,
			ActualArrival: &now,
		}, nil
	})
}

// MarkDelayed flags a Scheduled or InProgress trip as Delayed. Actual
// timestamps already recorded are kept.
func (m *Machine) MarkDelayed(ctx context.Context, tripID int64, reason string) (models.Trip, error) {
	reason = utils.NormalizeSpace(reason)
	if reason == "" {
		return models.Trip{}, domain.ValidationError{Field: "reason", Msg: "is required"}
	}
	return m.transition(ctx, ActionDelay, tripID, func(trip models.Trip, _ time.Time) (models.StatusUpdate, error) {
		if trip.Status != models.StatusScheduled && trip.Status != models.StatusInProgress {
			return models.StatusUpdate{}, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
		}
		return models.StatusUpdate{
			TripID:      trip.ID,
			NewStatus:   models.StatusDelayed,
			DelayReason: reason,
		}, nil
	})
}

// Cancel is the administrative Scheduled -> Cancelled transition.
func (m *Machine) Cancel(ctx context.Context, tripID int64) (models.Trip, error) {
	return m.transition(ctx, ActionCancel, tripID, func(trip models.Trip, _ time.Time) (models.StatusUpdate, error) {
		if trip.Status != models.StatusScheduled {
			return models.StatusUpdate{}, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
		}
		return models.StatusUpdate{TripID: trip.ID, NewStatus: models.StatusCancelled}, nil
	})
}

// ReportIncident hands a report to the incident sink. It never touches trip
// status and tripID may be nil for depot or general incidents.
func (m *Machine) ReportIncident(ctx context.Context, tripID *int64, driverID int64, details string, severity models.Severity) (models.IncidentReport, error) {
	details = utils.TrimOrEmpty(details)
	if details == "" {
		return models.IncidentReport{}, domain.ValidationError{Field: "details", Msg: "is required"}
	}
	if severity == "" {
		severity = models.SeverityMedium
	}
	if !severity.Valid() {
		return models.IncidentReport{}, domain.ValidationError{Field: "severity", Msg: "must be low, medium, high or critical"}
	}
	rep := models.IncidentReport{
		ID:          uuid.New(),
		TripID:      tripID,
		DriverID:    driverID,
		Description: details,
		Severity:    severity,
		CreatedAt:   m.clock.Now(),
	}
	m.metrics.Counter(IncidentsTotal).Inc()
	if err := m.incidents.Emit(ctx, EventIncident, rep); err != nil {
		utils.LogEvent(utils.RequestIDFromContext(ctx), "incident", "emit_error", err.Error())
	}
	return rep, nil
}

type planFunc func(trip models.Trip, now time.Time) (models.StatusUpdate, error)

func (m *Machine) transition(ctx context.Context, action Action, tripID int64, plan planFunc) (result models.Trip, err error) {
	ctx, span := m.tracer.StartSpan(ctx, TransitionSpan)
	span.SetTag(TagAction, string(action))
	span.SetTag(TagTripID, fmt.Sprintf("%d", tripID))

	var (
		from   domain.Status
		update models.StatusUpdate
	)
	defer func() {
		now := m.clock.Now()
		if err == nil {
			m.metrics.Counter(TransitionsTotal).Inc()
			_ = m.hooks.Emit(ctx, EventStatusChanged, TransitionEvent{ //nolint:errcheck
				TripID: tripID, Action: action, From: from, Update: update, Timestamp: now,
			})
		} else if reason, ok := domain.RejectionReason(err); ok {
			m.metrics.Counter(RejectionsTotal).Inc()
			if key, ok := rejectionCounters[reason]; ok {
				m.metrics.Counter(key).Inc()
			}
			span.SetTag(TagReason, string(reason))
			_ = m.hooks.Emit(ctx, EventRejected, TransitionEvent{ //nolint:errcheck
				TripID: tripID, Action: action, From: from, Reason: reason, Timestamp: now,
			})
		}
		span.Finish()
	}()

	if tripID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "tripId", Msg: "must be positive"}
	}

	trip, err := m.trips.GetTrip(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	from = trip.Status
	if models.Terminal(trip.Status) {
		return trip, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
	}

	update, err = plan(trip, m.clock.Now())
	if err != nil {
		return trip, err
	}

	swapped, err := m.trips.CompareAndSwapStatus(ctx, update, trip.Status)
	if err != nil {
		return trip, fmt.Errorf("%s trip %d: %w", action, tripID, err)
	}
	if !swapped {
		// Another caller moved the trip after it was read.
		return trip, domain.Reject(domain.ReasonInvalidTransition, trip.ID, trip.Status)
	}

	utils.LogEvent(utils.RequestIDFromContext(ctx), "trip", string(action),
		fmt.Sprintf("trip_id=%d from=%s to=%s", tripID, trip.Status, update.NewStatus))
	return update.Apply(trip), nil
}

func withTrip(err error, trip models.Trip) error {
	if rej, ok := err.(domain.RejectionError); ok {
		rej.TripID = trip.ID
		rej.From = trip.Status
		return rej
	}
	return err
}
