package models

import (
	"time"

	"fleetdesk/internal/domain"
)

const (
	StatusScheduled  domain.Status = "Scheduled"
	StatusInProgress domain.Status = "InProgress"
	StatusCompleted  domain.Status = "Completed"
	StatusDelayed    domain.Status = "Delayed"
	StatusCancelled  domain.Status = "Cancelled"
)

// Trip is a scheduled run of one bus by one driver.
type Trip struct {
	ID                 int64         `json:"id"`
	CompanyID          int64         `json:"companyId"`
	DriverID           int64         `json:"driverId"`
	BusID              int64         `json:"busId"`
	ScheduledDeparture time.Time     `json:"scheduledDeparture"`
	ScheduledArrival   time.Time     `json:"scheduledArrival"`
	ActualDeparture    *time.Time    `json:"actualDeparture,omitempty"`
	ActualArrival      *time.Time    `json:"actualArrival,omitempty"`
	Status             domain.Status `json:"status"`
	DelayReason        string        `json:"delayReason,omitempty"`
}

// Terminal reports whether no further transition may leave the status.
func Terminal(s domain.Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// StatusUpdate is the command handed to the trip store after a transition
// is accepted. Nil timestamps leave the stored values untouched.
type StatusUpdate struct {
	TripID          int64         `json:"tripId"`
	NewStatus       domain.Status `json:"newStatus"`
	ActualDeparture *time.Time    `json:"actualDeparture,omitempty"`
	ActualArrival   *time.Time    `json:"actualArrival,omitempty"`
	DelayReason     string        `json:"delayReason,omitempty"`
}

// Apply returns a copy of t with the update applied.
func (u StatusUpdate) Apply(t Trip) Trip {
	t.Status = u.NewStatus
	if u.ActualDeparture != nil {
		v := *u.ActualDeparture
		t.ActualDeparture = &v
	}
	if u.ActualArrival != nil {
		v := *u.ActualArrival
		t.ActualArrival = &v
	}
	if u.DelayReason != "" {
		t.DelayReason = u.DelayReason
	}
	return t
}
