package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the routing key of a booking event
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
)

// BookingEvent is published to the notification sink after a committed change
type BookingEvent struct {
	ID             string        `json:"id"`
	Type           EventType     `json:"type"`
	OrganizationID string        `json:"organizationId"`
	BookingID      string        `json:"bookingId"`
	CustomerID     string        `json:"customerId"`
	StaffID        string        `json:"staffId"`
	ServiceID      string        `json:"serviceId"`
	Status         BookingStatus `json:"status"`
	PreviousStatus BookingStatus `json:"previousStatus,omitempty"`
	Date           string        `json:"date"`
	StartTime      string        `json:"startTime"`
	EndTime        string        `json:"endTime"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

// NewBookingEvent snapshots b into an event of the given type
func NewBookingEvent(eventType EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: b.OrganizationID,
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		StaffID:        b.StaffID,
		ServiceID:      b.ServiceID,
		Status:         b.Status,
		Date:           b.Date.Format(DateFormat),
		StartTime:      b.StartTime.String(),
		EndTime:        b.EndTime.String(),
		OccurredAt:     at,
	}
}

// NewTransitionEvent is NewBookingEvent for a status change from previous to b.Status
func NewTransitionEvent(b *Booking, previous BookingStatus, at time.Time) (BookingEvent, bool) {
	eventType, ok := EventForStatus(b.Status)
	if !ok {
		return BookingEvent{}, false
	}
	event := NewBookingEvent(eventType, b, at)
	event.PreviousStatus = previous
	return event, true
}

// EventForStatus returns the event emitted when a booking enters status
func EventForStatus(status BookingStatus) (EventType, bool) {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed, true
	case StatusCompleted:
		return EventBookingCompleted, true
	case StatusCancelled:
		return EventBookingCancelled, true
	default:
		return "", false
	}
}
