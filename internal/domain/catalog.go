package domain

import (
	"fmt"
	"sort"
	"time"
)

// Service is a bookable service of an organization
type Service struct {
	ID              string
	OrganizationID  string
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
}

// Validate checks catalog invariants of a service
func (s *Service) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: service id is required", ErrInvalidRequest)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service %s: duration must be positive", ErrInvalidRequest, s.ID)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: service %s: price must not be negative", ErrInvalidRequest, s.ID)
	}
	return nil
}

// WorkingHours maps a weekday to its ordered, non-overlapping intervals in local business time
type WorkingHours map[time.Weekday][]TimeRange

// IntervalsFor returns the intervals of the weekday of date, sorted by start.
func (wh WorkingHours) IntervalsFor(date time.Time) []TimeRange {
	intervals := append([]TimeRange(nil), wh[date.Weekday()]...)
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.IsBefore(intervals[j].Start)
	})
	return intervals
}

// Covers reports whether rng fits entirely inside one interval of the weekday of date.
func (wh WorkingHours) Covers(date time.Time, rng TimeRange) bool {
	for _, interval := range wh[date.Weekday()] {
		if interval.Contains(rng) {
			return true
		}
	}
	return false
}

// Validate checks that every interval is well-formed and intervals of a day do not overlap.
func (wh WorkingHours) Validate() error {
	for weekday, intervals := range wh {
		sorted := append([]TimeRange(nil), intervals...)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Start.IsBefore(sorted[j].Start)
		})
		for i, interval := range sorted {
			if !interval.IsValid() {
				return fmt.Errorf("%w: %s: invalid interval %s", ErrInvalidRequest, weekday, interval)
			}
			if i > 0 && sorted[i-1].Overlaps(interval) {
				return fmt.Errorf("%w: %s: intervals %s and %s overlap",
					ErrInvalidRequest, weekday, sorted[i-1], interval)
			}
		}
	}
	return nil
}

// StaffMember is an employee whose time can be booked
type StaffMember struct {
	ID             string
	OrganizationID string
	Name           string
	WorkingHours   WorkingHours
	IsActive       bool
}

// Validate checks catalog invariants of a staff member
func (s *StaffMember) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: staff id is required", ErrInvalidRequest)
	}
	if err := s.WorkingHours.Validate(); err != nil {
		return fmt.Errorf("staff %s: %w", s.ID, err)
	}
	return nil
}

// WorksOn reports whether the staff member has any working interval on the weekday of date.
func (s *StaffMember) WorksOn(date time.Time) bool {
	return len(s.WorkingHours[date.Weekday()]) > 0
}

// CatalogFilter filters staff and services listings
type CatalogFilter struct {
	ActiveOnly bool
}
