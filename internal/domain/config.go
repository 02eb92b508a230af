package domain

import (
	"fmt"
	"time"
)

// SchedulingConfig is the booking policy of one organization
type SchedulingConfig struct {
	OrganizationID          string
	SlotGranularityMinutes  int
	AutoConfirm             bool // new bookings start Confirmed instead of Pending
	AdvanceBookingDays      int  // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSchedulingConfig is used when an organization has no stored policy.
func DefaultSchedulingConfig(organizationID string, granularity int) *SchedulingConfig {
	if granularity <= 0 {
		granularity = DefaultSlotGranularityMinutes
	}
	return &SchedulingConfig{
		OrganizationID:          organizationID,
		SlotGranularityMinutes:  granularity,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *SchedulingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// InitialStatus returns the status of a new booking; confirm overrides the organization default.
func (c *SchedulingConfig) InitialStatus(confirm *bool) BookingStatus {
	immediate := c.AutoConfirm
	if confirm != nil {
		immediate = *confirm
	}
	if immediate {
		return StatusConfirmed
	}
	return StatusPending
}

// Validate checks the policy bounds
func (c *SchedulingConfig) Validate() error {
	if c.SlotGranularityMinutes < MinSlotGranularityMinutes || c.SlotGranularityMinutes > MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slot granularity must be between %d and %d minutes",
			ErrInvalidRequest, MinSlotGranularityMinutes, MaxSlotGranularityMinutes)
	}
	if c.AdvanceBookingDays < MinAdvanceBookingDays || c.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be between %d and %d",
			ErrInvalidRequest, MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	if c.MinBookingNoticeMinutes < MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: min booking notice must be between %d and %d minutes",
			ErrInvalidRequest, MinBookingNoticeMinutes, MaxBookingNoticeMinutes)
	}
	return nil
}

var (
	// ErrDateInPast the requested date is before today in business time
	ErrDateInPast = fmt.Errorf("date is in the past: %w", ErrInvalidRequest)

	// ErrDateTooFar the requested date is beyond the advance booking horizon
	ErrDateTooFar = fmt.Errorf("date is too far in the future: %w", ErrInvalidRequest)

	// ErrTooLateToBook the requested start violates the minimum booking notice
	ErrTooLateToBook = fmt.Errorf("too late to book this time: %w", ErrInvalidRequest)
)

// CheckDate rejects dates before today and beyond the advance booking horizon.
// now must be in business time.
func (c *SchedulingConfig) CheckDate(date, now time.Time) error {
	day := DateOnly(date)
	today := DateOnly(now)
	if day.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, day.Format(DateFormat))
	}
	if c.HasAdvanceBookingLimit() && day.After(today.AddDate(0, 0, c.AdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFar, c.AdvanceBookingDays)
	}
	return nil
}

// BookableFrom returns the earliest start on date allowed by the notice policy, in minutes since midnight.
// A result above MinutesPerDay means nothing on date can be booked. now must be in business time.
func (c *SchedulingConfig) BookableFrom(date, now time.Time) int {
	earliest := now.Add(time.Duration(c.MinBookingNoticeMinutes) * time.Minute)
	day := DateOnly(date)
	earliestDay := DateOnly(earliest)
	switch {
	case day.Before(earliestDay):
		return MinutesPerDay + 1
	case day.After(earliestDay):
		return 0
	}
	minutes := earliest.Hour()*60 + earliest.Minute()
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		minutes++
	}
	return minutes
}

// CheckNotice rejects a start earlier than BookableFrom.
func (c *SchedulingConfig) CheckNotice(date time.Time, start int, now time.Time) error {
	if start < c.BookableFrom(date, now) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, c.MinBookingNoticeMinutes)
	}
	return nil
}
