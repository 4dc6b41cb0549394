package lifecycle

import (
	"errors"
	"strings"
	"time"

	"fleetdesk/internal/domain"
)

const (
	// StartLead is how long before scheduled departure a trip may be started.
	StartLead = 30 * time.Minute
	// EndLead and EndGrace bound the completion window around scheduled arrival.
	EndLead  = 30 * time.Minute
	EndGrace = 60 * time.Minute
)

var errZeroTime = errors.New("timestamp is missing")

const layoutDateTime = "2006-01-02 15:04:05"

// ParseTimestamp accepts RFC3339, or "YYYY-MM-DD HH:MM:SS" in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.InvalidTimestamp(errZeroTime)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layoutDateTime, s, loc)
	if err != nil {
		return time.Time{}, domain.InvalidTimestamp(err)
	}
	return t, nil
}

// IsWithinStartWindow reports whether now is at or after scheduledDeparture
// minus StartLead. Once open, the start window never closes.
func IsWithinStartWindow(now, scheduledDeparture time.Time) (bool, error) {
	if now.IsZero() || scheduledDeparture.IsZero() {
		return false, domain.InvalidTimestamp(errZeroTime)
	}
	return !now.Before(scheduledDeparture.Add(-StartLead)), nil
}

// IsWithinEndWindow reports whether now falls inside
// [scheduledArrival-EndLead, scheduledArrival+EndGrace], both ends inclusive.
func IsWithinEndWindow(now, scheduledArrival time.Time) (bool, error) {
	if now.IsZero() || scheduledArrival.IsZero() {
		return false, domain.InvalidTimestamp(errZeroTime)
	}
	opens := scheduledArrival.Add(-EndLead)
	closes := scheduledArrival.Add(EndGrace)
	return !now.Before(opens) && !now.After(closes), nil
}
