package lifecycle

import (
	"sort"
	"time"

	"fleetdesk/internal/domain/models"
)

// DayWindow is the half-open evaluation day [Start, End).
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindowFor returns midnight-to-midnight around t in loc.
func DayWindowFor(t time.Time, loc *time.Location) DayWindow {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

func (d DayWindow) overlaps(s models.ShiftInterval, now time.Time) bool {
	return s.Start.Before(d.End) && s.EndOr(now).After(d.Start)
}

// ShiftSummary is the aggregator output, in hours.
type ShiftSummary struct {
	TotalContinuousHours float64 `json:"totalContinuousHours"`
	MostRecentRestHours  float64 `json:"mostRecentRestHours"`
	Intervals            int     `json:"intervals"`
}

// AggregateShifts sums the duration of every interval overlapping day and
// finds the largest gap between consecutive intervals. Overlapping intervals
// are summed as-is, not merged, and durations are not clipped to the day.
func AggregateShifts(intervals []models.ShiftInterval, day DayWindow, now time.Time) ShiftSummary {
	inDay := make([]models.ShiftInterval, 0, len(intervals))
	for _, s := range intervals {
		if s.Start.IsZero() {
			continue
		}
		if day.Start.IsZero() || day.overlaps(s, now) {
			inDay = append(inDay, s)
		}
	}

	var total time.Duration
	for _, s := range inDay {
		if d := s.EndOr(now).Sub(s.Start); d > 0 {
			total += d
		}
	}

	summary := ShiftSummary{
		TotalContinuousHours: total.Hours(),
		Intervals:            len(inDay),
	}
	if len(inDay) < 2 {
		return summary
	}

	sort.SliceStable(inDay, func(i, j int) bool {
		return inDay[i].Start.Before(inDay[j].Start)
	})

	var maxGap time.Duration
	for i := 1; i < len(inDay); i++ {
		gap := inDay[i].Start.Sub(inDay[i-1].EndOr(now))
		if gap > maxGap {
			maxGap = gap
		}
	}
	summary.MostRecentRestHours = maxGap.Hours()
	return summary
}
