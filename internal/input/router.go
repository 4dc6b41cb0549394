package input

import (
	"context"
	"fmt"
	"sync"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"
)

// TripCommands is the state machine as seen by an authenticated caller.
type TripCommands interface {
	Trip(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error)
	Start(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error)
	Complete(ctx context.Context, rc domain.RequestContext, tripID int64) (models.Trip, error)
	MarkDelayed(ctx context.Context, rc domain.RequestContext, tripID int64, reason string) (models.Trip, error)
	ReportIncident(ctx context.Context, rc domain.RequestContext, tripID *int64, details string, severity models.Severity) (models.IncidentReport, error)
}

// Result is what the adapter gets back for a command.
type Result struct {
	Command   Command                `json:"command"`
	Trip      *models.Trip           `json:"trip,omitempty"`
	Incident  *models.IncidentReport `json:"incident,omitempty"`
	Rejection domain.Reason          `json:"rejection,omitempty"`
	Err       error                  `json:"-"`
}

func (r Result) OK() bool { return r.Err == nil }

// AdapterStatus reports whether an attached adapter is live.
type AdapterStatus struct {
	Source    Source `json:"source"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type Router struct {
	trips TripCommands
	gate  *lifecycle.Gate

	mu       sync.Mutex
	adapters map[Source]InputAdapter
	status   map[Source]AdapterStatus
	onResult func(Result)
}

func NewRouter(trips TripCommands, gate *lifecycle.Gate) *Router {
	return &Router{
		trips:    trips,
		gate:     gate,
		adapters: map[Source]InputAdapter{},
		status:   map[Source]AdapterStatus{},
	}
}

// OnResult registers the callback that surfaces results to the UI.
func (r *Router) OnResult(fn func(Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = fn
}

// Dispatch validates a command and forwards it to the trip commands.
func (r *Router) Dispatch(ctx context.Context, rc domain.RequestContext, cmd Command) Result {
	if cmd.Source == "" {
		cmd.Source = SourceManual
	}
	r.markLive(cmd.Source)
	res := Result{Command: cmd}
	res.Err = r.dispatch(ctx, rc, cmd, &res)
	if reason, ok := domain.RejectionReason(res.Err); ok {
		res.Rejection = reason
	}
	if res.Err != nil {
		utils.LogEvent(rc.RequestID, "router", string(cmd.Action),
			fmt.Sprintf("source=%s trip_id=%d err=%v", cmd.Source, cmd.TripID, res.Err))
	}
	return res
}

func (r *Router) dispatch(ctx context.Context, rc domain.RequestContext, cmd Command, res *Result) error {
	if cmd.Action != lifecycle.ActionReport && cmd.TripID <= 0 {
		return domain.ValidationError{Field: "tripId", Msg: "is required"}
	}

	var (
		trip models.Trip
		err  error
	)
	switch cmd.Action {
	case lifecycle.ActionStart:
		// Only the button surface asks for the checklist confirmation.
		switch cmd.Source {
		case SourceManual:
			if !cmd.ConfirmInspection {
				return domain.ValidationError{Field: "confirmInspection", Msg: "confirm the pre-trip inspection is complete"}
			}
		case SourceScan:
			tripID := cmd.TripID
			r.gate.RecordBestEffort(ctx, lifecycle.InspectionInput{
				TripID:   &tripID,
				DriverID: int64(rc.DriverID),
				Items:    cmd.Checklist,
				Source:   string(SourceScan),
			})
		}
		trip, err = r.trips.Start(ctx, rc, cmd.TripID)
	case lifecycle.ActionComplete:
		trip, err = r.trips.Complete(ctx, rc, cmd.TripID)
	case lifecycle.ActionDelay:
		trip, err = r.trips.MarkDelayed(ctx, rc, cmd.TripID, cmd.Reason)
	case lifecycle.ActionManifest:
		trip, err = r.trips.Trip(ctx, rc, cmd.TripID)
	case lifecycle.ActionReport:
		var tripID *int64
		if cmd.TripID > 0 {
			id := cmd.TripID
			tripID = &id
		}
		rep, err := r.trips.ReportIncident(ctx, rc, tripID, cmd.Details, cmd.Severity)
		if err != nil {
			return err
		}
		res.Incident = &rep
		return nil
	default:
		return domain.ValidationError{Field: "action", Msg: fmt.Sprintf("unsupported action %q", cmd.Action)}
	}
	if err != nil {
		return err
	}
	res.Trip = &trip
	return nil
}

// Attach starts an adapter and routes its commands for the session rc.
// An adapter that cannot start is recorded as unavailable; the router and
// every other adapter keep working.
func (r *Router) Attach(ctx context.Context, rc domain.RequestContext, a InputAdapter) AdapterStatus {
	src := a.Source()
	a.OnCommand(func(cmd Command) {
		cmd.Source = src
		res := r.Dispatch(ctx, rc, cmd)
		r.mu.Lock()
		fn := r.onResult
		r.mu.Unlock()
		if fn != nil {
			fn(res)
		}
	})

	st := AdapterStatus{Source: src, Available: true}
	if err := startSafely(a); err != nil {
		st.Available = false
		st.Error = err.Error()
		utils.LogEvent(rc.RequestID, "router", "adapter_unavailable", fmt.Sprintf("source=%s err=%v", src, err))
	}

	r.mu.Lock()
	r.adapters[src] = a
	r.status[src] = st
	r.mu.Unlock()
	return st
}

// Detach stops and forgets the adapter for src.
func (r *Router) Detach(src Source) {
	r.mu.Lock()
	a, ok := r.adapters[src]
	delete(r.adapters, src)
	delete(r.status, src)
	r.mu.Unlock()
	if ok {
		_ = a.Stop()
	}
}

// markLive records that src just produced a command.
func (r *Router) markLive(src Source) {
	if !src.Valid() {
		return
	}
	r.mu.Lock()
	r.status[src] = AdapterStatus{Source: src, Available: true}
	r.mu.Unlock()
}

// Report records the availability of a client-side capability, such as a
// camera or speech API the browser could not open.
func (r *Router) Report(rc domain.RequestContext, src Source, available bool, reason string) (AdapterStatus, error) {
	if !src.Valid() {
		return AdapterStatus{}, domain.ValidationError{Field: "source", Msg: "must be manual, scan or voice"}
	}
	st := AdapterStatus{Source: src, Available: available}
	if !available {
		st.Error = utils.NormalizeSpace(reason)
		if st.Error == "" {
			st.Error = ErrAdapterUnavailable.Error()
		}
		utils.LogEvent(rc.RequestID, "router", "adapter_unavailable", fmt.Sprintf("source=%s err=%s", src, st.Error))
	}
	r.mu.Lock()
	r.status[src] = st
	r.mu.Unlock()
	return st, nil
}

// Status lists attached adapters and reported capabilities.
func (r *Router) Status() []AdapterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AdapterStatus, 0, len(r.status))
	for _, src := range []Source{SourceManual, SourceScan, SourceVoice} {
		if st, ok := r.status[src]; ok {
			out = append(out, st)
		}
	}
	return out
}

func startSafely(a InputAdapter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic during start: %v", ErrAdapterUnavailable, p)
		}
	}()
	if err := a.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrAdapterUnavailable, err)
	}
	return nil
}
