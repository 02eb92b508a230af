package domain

import "errors"

// Error kinds. Package-level errors elsewhere wrap exactly one of these,
// so callers can match the precise error or just its kind.
var (
	// ErrNotFound referenced staff, service or booking does not exist or is inactive
	ErrNotFound = errors.New("not found")

	// ErrOutOfHours requested interval is outside the staff member's working hours
	ErrOutOfHours = errors.New("out of working hours")

	// ErrSlotConflict requested interval overlaps an active booking of the same staff member
	ErrSlotConflict = errors.New("slot conflict")

	// ErrInvalidTransition requested status is not reachable from the current one
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidRequest malformed input
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnavailable persistence could not complete the operation; the only transient kind
	ErrUnavailable = errors.New("temporarily unavailable")
)

// Kinds lists all kinds in match order.
var Kinds = []error{
	ErrNotFound,
	ErrOutOfHours,
	ErrSlotConflict,
	ErrInvalidTransition,
	ErrInvalidRequest,
	ErrUnavailable,
}

// KindOf returns the kind err wraps, or nil.
func KindOf(err error) error {
	for _, kind := range Kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
