package lifecycle

import (
	"testing"
	"time"

	"fleetdesk/internal/domain"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsWithinStartWindow(t *testing.T) {
	dep := at("10:00")
	cases := []struct {
		now  string
		want bool
	}{
		{"09:29", false},
		{"09:30", true},
		{"09:35", true},
		{"10:00", true},
		{"23:59", true},
	}
	for _, tc := range cases {
		got, err := IsWithinStartWindow(at(tc.now), dep)
		if err != nil {
			t.Fatalf("now=%s: unexpected error %v", tc.now, err)
		}
		if got != tc.want {
			t.Fatalf("now=%s: got %v want %v", tc.now, got, tc.want)
		}
	}
}

func TestIsWithinEndWindow(t *testing.T) {
	arr := at("12:00")
	cases := []struct {
		now  string
		want bool
	}{
		{"11:29", false},
		{"11:30", true},
		{"11:40", true},
		{"13:00", true},
		{"13:01", false},
	}
	for _, tc := range cases {
		got, err := IsWithinEndWindow(at(tc.now), arr)
		if err != nil {
			t.Fatalf("now=%s: unexpected error %v", tc.now, err)
		}
		if got != tc.want {
			t.Fatalf("now=%s: got %v want %v", tc.now, got, tc.want)
		}
	}
}

func TestWindowsRejectZeroTimes(t *testing.T) {
	if _, err := IsWithinStartWindow(time.Time{}, at("10:00")); !domain.IsRejection(err, domain.ReasonInvalidTimestamp) {
		t.Fatalf("expected InvalidTimestamp, got %v", err)
	}
	if _, err := IsWithinEndWindow(at("10:00"), time.Time{}); !domain.IsRejection(err, domain.ReasonInvalidTimestamp) {
		t.Fatalf("expected InvalidTimestamp, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	got, err := ParseTimestamp("2025-03-10 09:35:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 10, 2, 35, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
	if _, err := ParseTimestamp("2025-03-10T09:35:00Z", nil); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	for _, bad := range []string{"", "yesterday", "2025-13-40 99:00:00"} {
		if _, err := ParseTimestamp(bad, loc); !domain.IsRejection(err, domain.ReasonInvalidTimestamp) {
			t.Fatalf("%q: expected InvalidTimestamp, got %v", bad, err)
		}
	}
}
