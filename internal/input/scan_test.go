package input

import (
	"context"
	"errors"
	"testing"

	"fleetdesk/internal/lifecycle"
)

func TestParseTripCode(t *testing.T) {
	for code, want := range map[string]int64{"TRIP-42": 42, "trip-7": 7, " 15 ": 15} {
		got, err := ParseTripCode(code)
		if err != nil || got != want {
			t.Fatalf("%q: got (%d, %v) want %d", code, got, err, want)
		}
	}
	for _, bad := range []string{"", "TRIP-", "TRIP-abc", "BUS-3", "-4", "0"} {
		if _, err := ParseTripCode(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestScanCommand_Modes(t *testing.T) {
	cmd, err := ScanCommand("TRIP-8", lifecycle.ActionComplete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.TripID != 8 || cmd.Action != lifecycle.ActionComplete || cmd.Source != SourceScan {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if _, err := ScanCommand("TRIP-8", lifecycle.ActionReport); err == nil {
		t.Fatalf("report is not a scan mode")
	}
}

type fakeScanner struct {
	onDecode func(string)
	err      error
}

func (f *fakeScanner) Start(onDecode func(string)) error {
	if f.err != nil {
		return f.err
	}
	f.onDecode = onDecode
	return nil
}

func (f *fakeScanner) Stop() error { return nil }

func TestScanAdapter_DecodesIntoCommands(t *testing.T) {
	trips := &fakeTrips{}
	inspections := &fakeInspections{}
	r := NewRouter(trips, lifecycle.NewGate(inspections))
	scanner := &fakeScanner{}

	if st := r.Attach(context.Background(), driverRC, NewScanAdapter(scanner, lifecycle.ActionStart)); !st.Available {
		t.Fatalf("scan adapter should start: %+v", st)
	}
	scanner.onDecode("not a code")
	if len(trips.calls) != 0 {
		t.Fatalf("unreadable code should be dropped")
	}
	scanner.onDecode("TRIP-30")
	if got := trips.last(); got.method != "start" || got.tripID != 30 {
		t.Fatalf("unexpected call: %+v", got)
	}
	if len(inspections.recs) != 1 {
		t.Fatalf("scan start should record an inspection")
	}
}

func TestScanAdapter_Unavailable(t *testing.T) {
	if err := NewScanAdapter(nil, lifecycle.ActionStart).Start(); !errors.Is(err, ErrAdapterUnavailable) {
		t.Fatalf("nil scanner: got %v", err)
	}
	r := NewRouter(&fakeTrips{}, nil)
	st := r.Attach(context.Background(), driverRC, NewScanAdapter(&fakeScanner{err: errors.New("no camera")}, lifecycle.ActionStart))
	if st.Available || st.Source != SourceScan {
		t.Fatalf("unexpected status: %+v", st)
	}
}
