package domain

import (
	"errors"
	"fmt"
)

// Reason identifies why a trip transition was refused.
type Reason string

const (
	ReasonOutsideStartWindow Reason = "OutsideStartWindow"
	ReasonOutsideEndWindow   Reason = "OutsideEndWindow"
	ReasonInvalidTransition  Reason = "InvalidTransition"
	ReasonInvalidTimestamp   Reason = "InvalidTimestamp"
)

// RejectionError is returned when a transition is not applied.
// Nothing about the trip changes when this error is returned.
type RejectionError struct {
	Reason Reason
	TripID int64
	From   Status
	Err    error
}

func (e RejectionError) Error() string {
	msg := string(e.Reason)
	if e.TripID > 0 {
		msg = fmt.Sprintf("trip %d: %s", e.TripID, e.Reason)
	}
	if e.From != "" {
		msg += fmt.Sprintf(" (status %s)", e.From)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e RejectionError) Unwrap() error { return e.Err }

// Reject builds a RejectionError for a trip in the given status.
func Reject(reason Reason, tripID int64, from Status) RejectionError {
	return RejectionError{Reason: reason, TripID: tripID, From: from}
}

// InvalidTimestamp wraps a parse or zero-value failure.
func InvalidTimestamp(err error) RejectionError {
	return RejectionError{Reason: ReasonInvalidTimestamp, Err: err}
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// RejectionReason reports the reason carried by err, if any.
func RejectionReason(err error) (Reason, bool) {
	var target RejectionError
	if errors.As(err, &target) {
		return target.Reason, true
	}
	return "", false
}

// IsRejection reports whether err is a rejection with the given reason.
func IsRejection(err error, reason Reason) bool {
	got, ok := RejectionReason(err)
	return ok && got == reason
}
