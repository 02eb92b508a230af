package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeRange is a half-open [Start, End) interval within one day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeRange builds [start, start+durationMinutes); the end must not pass 24:00.
func NewTimeRange(start types.TimeString, durationMinutes int) (TimeRange, error) {
	if durationMinutes <= 0 {
		return TimeRange{}, fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps: [a,b) and [c,d) overlap iff a < d and c < b. Touching intervals do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < r.End.Minutes()
}

// Contains reports whether other lies entirely inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return r.Start.Minutes() <= other.Start.Minutes() && other.End.Minutes() <= r.End.Minutes()
}

func (r TimeRange) Minutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

func (r TimeRange) IsValid() bool {
	return r.Start.Validate() == nil && r.End.Validate() == nil && r.Start.IsBefore(r.End)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// FindConflict returns the first active booking in bookings whose interval overlaps rng,
// ignoring the booking with id excludeID. bookings must belong to one staff member and one date.
func FindConflict(bookings []*Booking, rng TimeRange, excludeID string) *Booking {
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Range().Overlaps(rng) {
			return b
		}
	}
	return nil
}

// AvailableSlot is a bookable start time for a given service duration
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// CheckPlacement verifies rng on date against the staff member's working hours and the
// active bookings of that staff member on that date. OutOfHours is reported before SlotConflict.
func CheckPlacement(staff *StaffMember, date time.Time, rng TimeRange, bookings []*Booking, excludeID string) (*Booking, error) {
	if !rng.IsValid() || !staff.WorkingHours.Covers(date, rng) {
		return nil, fmt.Errorf("%w: %s on %s is outside working hours of staff %s",
			ErrOutOfHours, rng, date.Format(DateFormat), staff.ID)
	}
	if conflict := FindConflict(bookings, rng, excludeID); conflict != nil {
		return conflict, fmt.Errorf("%w: %s overlaps booking %s (%s)",
			ErrSlotConflict, rng, conflict.ID, conflict.Range())
	}
	return nil, nil
}
