package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// transitions is the whole state machine. Completed and Cancelled have no exits.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// AllStatuses in lifecycle order
var AllStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// ActiveStatuses occupy their slot and take part in conflict checks
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// ParseBookingStatus accepts the lower-case wire form, case-insensitively.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidRequest, s)
	}
	return status, nil
}

func (s BookingStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive reports whether a booking in this status holds its slot.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no transition leaves this status.
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents an appointment of one customer with one staff member for one service
type Booking struct {
	ID             string
	OrganizationID string
	CustomerID     string
	StaffID        string
	ServiceID      string
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         BookingStatus

	// Snapshot of the service at creation (or at a reschedule that changed the service)
	ServiceName     string
	DurationMinutes int
	Amount          float64

	CustomerName       *string
	Notes              *string
	CancellationReason *string

	StatusChangedAt time.Time
	ConfirmedAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its slot
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelled returns true if the booking can move to Cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true if date, time, staff or service may still change
func (b *Booking) CanBeRescheduled() bool {
	return b.Status.IsActive()
}

// Range returns the booked [start, end) interval
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

// ApplyStatus moves the booking to next and stamps the matching timestamps.
// The caller must have checked CanTransitionTo.
func (b *Booking) ApplyStatus(next BookingStatus, at time.Time) {
	b.Status = next
	b.StatusChangedAt = at
	b.UpdatedAt = at

	stamp := at
	switch next {
	case StatusConfirmed:
		b.ConfirmedAt = &stamp
	case StatusCompleted:
		b.CompletedAt = &stamp
	case StatusCancelled:
		b.CancelledAt = &stamp
	}
}

// Clone returns a deep copy.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.CustomerName = cloneString(b.CustomerName)
	c.Notes = cloneString(b.Notes)
	c.CancellationReason = cloneString(b.CancellationReason)
	c.ConfirmedAt = cloneTime(b.ConfirmedAt)
	c.CompletedAt = cloneTime(b.CompletedAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	return &c
}

// BookingsFilter фильтр для выборки бронирований организации.
// Организация берётся из контекста на уровне репозитория.
type BookingsFilter struct {
	StaffID     *string        // Фильтр по сотруднику (опционально)
	CustomerID  *string        // Фильтр по клиенту (опционально)
	StartDate   *time.Time     // Начало периода включительно (опционально)
	EndDate     *time.Time     // Конец периода включительно (опционально)
	Status      *BookingStatus // Фильтр по статусу (опционально)
	ActiveOnly  bool           // Только pending/confirmed
	NewestFirst bool           // Сортировка по убыванию даты и времени
}

// Matches applies the filter to a single booking; used by the in-process store.
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.StaffID != nil && b.StaffID != *f.StaffID {
		return false
	}
	if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
		return false
	}
	if f.StartDate != nil && DateOnly(b.Date).Before(DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && DateOnly(b.Date).After(DateOnly(*f.EndDate)) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.ActiveOnly && !b.IsActive() {
		return false
	}
	return true
}

// DateOnly drops the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b are the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
