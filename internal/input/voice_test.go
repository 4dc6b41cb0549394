package input

import (
	"context"
	"errors"
	"testing"

	"fleetdesk/internal/lifecycle"
)

func TestMatchVoiceCommand(t *testing.T) {
	cases := []struct {
		transcript string
		want       lifecycle.Action
		ok         bool
	}{
		{"Start trip", lifecycle.ActionStart, true},
		{"please END TRIP now", lifecycle.ActionComplete, true},
		{"trip complete", lifecycle.ActionComplete, true},
		{"report a broken mirror", lifecycle.ActionReport, true},
		{"there is an issue with the door", lifecycle.ActionReport, true},
		{"show manifest", lifecycle.ActionManifest, true},
		{"start trip and report", lifecycle.ActionStart, true},
		{"Start trip!", lifecycle.ActionStart, true},
		{"report incomplete brake check", lifecycle.ActionReport, true},
		{"incomplete", "", false},
		{"restart tripod", "", false},
		{"hello", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		got, ok := MatchVoiceCommand(tc.transcript)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: got (%q, %v) want (%q, %v)", tc.transcript, got, ok, tc.want, tc.ok)
		}
	}
}

func TestVoiceCommand_ReportCarriesTranscript(t *testing.T) {
	cmd, ok := VoiceCommand(4, "Report  flat tyre")
	if !ok {
		t.Fatalf("expected a command")
	}
	if cmd.Action != lifecycle.ActionReport || cmd.Details != "Report flat tyre" || cmd.Source != SourceVoice || cmd.TripID != 4 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

type fakeRecognizer struct {
	onResult func(string)
	err      error
}

func (f *fakeRecognizer) Start(onResult func(string)) error {
	if f.err != nil {
		return f.err
	}
	f.onResult = onResult
	return nil
}

func (f *fakeRecognizer) Stop() error { return nil }

func TestVoiceAdapter_RoutesRecognizedSpeech(t *testing.T) {
	trips := &fakeTrips{}
	r := NewRouter(trips, nil)
	rec := &fakeRecognizer{}
	adapter := NewVoiceAdapter(rec, func() int64 { return 21 })

	if st := r.Attach(context.Background(), driverRC, adapter); !st.Available {
		t.Fatalf("voice adapter should start: %+v", st)
	}
	rec.onResult("complete")
	if got := trips.last(); got.method != "complete" || got.tripID != 21 {
		t.Fatalf("unexpected call: %+v", got)
	}

	before := len(trips.calls)
	rec.onResult("what time is it")
	if len(trips.calls) != before {
		t.Fatalf("unrecognized speech should be ignored")
	}
}

func TestVoiceAdapter_StartsTripWithoutConfirmation(t *testing.T) {
	trips := &fakeTrips{}
	r := NewRouter(trips, lifecycle.NewGate(&fakeInspections{}))
	rec := &fakeRecognizer{}
	results := make(chan Result, 1)
	r.OnResult(func(res Result) { results <- res })
	r.Attach(context.Background(), driverRC, NewVoiceAdapter(rec, func() int64 { return 21 }))

	rec.onResult("start trip")
	res := <-results
	if !res.OK() {
		t.Fatalf("voice start should reach the trip commands, got %v", res.Err)
	}
	if got := trips.last(); got.method != "start" || got.tripID != 21 {
		t.Fatalf("unexpected call: %+v", got)
	}
}

func TestVoiceAdapter_Unavailable(t *testing.T) {
	if err := NewVoiceAdapter(nil, nil).Start(); !errors.Is(err, ErrAdapterUnavailable) {
		t.Fatalf("nil recognizer: got %v", err)
	}
	r := NewRouter(&fakeTrips{}, nil)
	st := r.Attach(context.Background(), driverRC, NewVoiceAdapter(&fakeRecognizer{err: errors.New("denied")}, nil))
	if st.Available {
		t.Fatalf("denied recognizer should leave adapter unavailable")
	}
}
