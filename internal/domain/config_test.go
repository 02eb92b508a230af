package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulingConfig_CheckDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cfg := &SchedulingConfig{SlotGranularityMinutes: 15, AdvanceBookingDays: 7}

	assert.NoError(t, cfg.CheckDate(now, now))
	assert.NoError(t, cfg.CheckDate(now.AddDate(0, 0, 7), now))
	assert.ErrorIs(t, cfg.CheckDate(now.AddDate(0, 0, -1), now), ErrDateInPast)
	assert.ErrorIs(t, cfg.CheckDate(now.AddDate(0, 0, 8), now), ErrDateTooFar)
	assert.ErrorIs(t, cfg.CheckDate(now.AddDate(0, 0, 8), now), ErrInvalidRequest)

	unlimited := &SchedulingConfig{}
	assert.NoError(t, unlimited.CheckDate(now.AddDate(5, 0, 0), now))
}

func TestSchedulingConfig_BookableFrom(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 20, 30, 0, time.UTC)
	today := DateOnly(now)

	cfg := &SchedulingConfig{MinBookingNoticeMinutes: 60}
	assert.Equal(t, 11*60+21, cfg.BookableFrom(today, now), "seconds round up to the next minute")
	assert.Equal(t, 0, cfg.BookableFrom(today.AddDate(0, 0, 1), now))

	late := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	assert.Greater(t, cfg.BookableFrom(today, late), MinutesPerDay, "notice spills into tomorrow")
	assert.Equal(t, 30, cfg.BookableFrom(today.AddDate(0, 0, 1), late))

	assert.ErrorIs(t, cfg.CheckNotice(today, 11*60, now), ErrTooLateToBook)
	assert.NoError(t, cfg.CheckNotice(today, 11*60+30, now))
}

func TestCheckPlacement(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	staff := &StaffMember{
		ID:           "staff-a",
		WorkingHours: WorkingHours{time.Monday: {{Start: "09:00", End: "17:00"}}},
	}
	existing := []*Booking{{ID: "b-1", Status: StatusConfirmed, StartTime: "09:00", EndTime: "09:45"}}

	_, err := CheckPlacement(staff, monday, TimeRange{Start: "16:45", End: "17:30"}, existing, "")
	assert.ErrorIs(t, err, ErrOutOfHours)

	conflict, err := CheckPlacement(staff, monday, TimeRange{Start: "09:15", End: "10:00"}, existing, "")
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, "b-1", conflict.ID)

	_, err = CheckPlacement(staff, monday, TimeRange{Start: "09:15", End: "10:00"}, existing, "b-1")
	assert.NoError(t, err, "a booking never conflicts with itself")

	_, err = CheckPlacement(staff, monday, TimeRange{Start: "09:45", End: "10:30"}, existing, "")
	assert.NoError(t, err)

	_, err = CheckPlacement(staff, monday.AddDate(0, 0, 1), TimeRange{Start: "10:00", End: "10:30"}, nil, "")
	assert.ErrorIs(t, err, ErrOutOfHours, "no hours on Tuesday")
}
