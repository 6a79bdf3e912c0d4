package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// Forbidden indicates that the actor is not authorized for the action.
var Forbidden = errors.New("forbidden")

// Conflict indicates a uniqueness or state conflict (HTTP 409).
var Conflict = errors.New("conflict")

// CapacityExceeded indicates that a delivery partner is at max daily capacity.
var CapacityExceeded = errors.New("capacity exceeded")

// TransitionError reports an assignment status transition that is not in the
// transition table. It carries the attempted pair and the allowed targets so
// the caller can decide on a remedy.
type TransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("invalid transition %s -> %s (allowed: %s)", e.From, e.To, allowed)
}

// DeviationError reports a partner-proposed fee outside the allowed deviation
// band around the calculated reference fee. Amounts are in minor units.
type DeviationError struct {
	Proposed     int64
	Calculated   int64
	DeviationPct float64
	MaxPct       float64
}

func (e *DeviationError) Error() string {
	return fmt.Sprintf("proposed fee %d deviates %.1f%% from calculated %d (max %.1f%%)",
		e.Proposed, e.DeviationPct, e.Calculated, e.MaxPct)
}

func (e *DeviationError) Unwrap() error { return Invalid }
