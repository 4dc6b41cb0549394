package models

import "time"

// ShiftInterval is one logged driving shift. A nil End means the shift is
// still open.
type ShiftInterval struct {
	DriverID int64      `json:"driverId"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
}

// EndOr returns the end of the interval, or now when it is still open.
func (s ShiftInterval) EndOr(now time.Time) time.Time {
	if s.End == nil {
		return now
	}
	return *s.End
}
