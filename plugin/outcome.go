package plugin

import (
	"errors"
	"fmt"
)

// FinishError ends a run early with a human-readable reason and the error
// that caused it.
type FinishError struct {
	Plugin  string
	Message string
	Err     error
}

func (e *FinishError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Plugin, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Plugin, e.Message, e.Err)
}

func (e *FinishError) Unwrap() error {
	return e.Err
}

// Status is the state a run ended in.
type Status int

// Run statuses. Continue is only used between steps of a run; a finished
// run always reports one of the others.
const (
	Continue Status = iota
	// Exhausted means a listing page had no articles left.
	Exhausted
	// OutOfRange means the date restriction was crossed.
	OutOfRange
	// Fatal means a listing page could not be loaded.
	Fatal
	// Escalated means a restriction other than the date bound rejected a
	// document; the host decides what that means.
	Escalated
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Exhausted:
		return "exhausted"
	case OutOfRange:
		return "out_of_range"
	case Fatal:
		return "fatal"
	case Escalated:
		return "escalated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome describes how a run ended.
type Outcome struct {
	Status Status
	Reason string
	Cause  error

	Pages    int
	Accepted int
	Skipped  int
}

// Graceful reports whether the run ended in an expected way.
func (o Outcome) Graceful() bool {
	return o.Status == Exhausted || o.Status == OutOfRange
}

// Err returns the error the host should see: nil for graceful outcomes, the
// finish error for fatal ones, and the original restriction error for
// escalated ones.
func (o Outcome) Err() error {
	switch o.Status {
	case Fatal, Escalated:
		if o.Cause != nil {
			return o.Cause
		}
		return errors.New(o.Reason)
	default:
		return nil
	}
}

// Restriction returns the restriction that ended the run, if any.
func (o Outcome) Restriction() (RestrictionKind, bool) {
	var restrictionErr *OutOfRestrictionError
	if errors.As(o.Cause, &restrictionErr) {
		return restrictionErr.Restriction, true
	}
	return "", false
}
