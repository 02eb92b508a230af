package get_schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BuildDay projects one day of bookings onto a grid with the given step.
// Rows cover the union of the staff's working intervals and occupied intervals,
// widened to the grid. Cancelled bookings never occupy a cell. When several
// bookings touch a row, an active one wins over a completed one, then the earliest.
func BuildDay(date time.Time, staff []*domain.StaffMember, bookings []*domain.Booking, granularity int) DaySchedule {
	day := DaySchedule{Date: date.Format(domain.DateFormat), Rows: []Row{}}
	if granularity <= 0 {
		return day
	}

	intervals := make([][]domain.TimeRange, len(staff))
	byStaff := make([][]*domain.Booking, len(staff))
	column := make(map[string]int, len(staff))
	for i, s := range staff {
		column[s.ID] = i
		intervals[i] = s.WorkingHours.IntervalsFor(date)
	}
	for _, b := range bookings {
		i, ok := column[b.StaffID]
		if !ok || b.Status == domain.StatusCancelled || !domain.SameDate(b.Date, date) {
			continue
		}
		byStaff[i] = append(byStaff[i], b)
	}

	first, last := domain.MinutesPerDay, 0
	extend := func(rng domain.TimeRange) {
		if m := rng.Start.Minutes(); m < first {
			first = m
		}
		if m := rng.End.Minutes(); m > last {
			last = m
		}
	}
	for i := range staff {
		for _, rng := range intervals[i] {
			extend(rng)
		}
		for _, b := range byStaff[i] {
			extend(b.Range())
		}
	}
	if first >= last {
		return day
	}

	first -= first % granularity
	if rem := last % granularity; rem != 0 {
		last += granularity - rem
	}
	if last > domain.MinutesPerDay {
		last = domain.MinutesPerDay
	}

	previous := make([]string, len(staff))
	for start := first; start < last; start += granularity {
		end := start + granularity
		if end > domain.MinutesPerDay {
			end = domain.MinutesPerDay
		}
		rng := domain.TimeRange{Start: types.MustFromMinutes(start), End: types.MustFromMinutes(end)}

		row := Row{StartTime: rng.Start, EndTime: rng.End, Cells: make([]Cell, len(staff))}
		for i := range staff {
			cell := Cell{Working: overlapsAny(intervals[i], rng)}
			if b := occupant(byStaff[i], rng); b != nil {
				cell.Booking = &BookingRef{
					ID:           b.ID,
					Status:       b.Status,
					CustomerID:   b.CustomerID,
					CustomerName: b.CustomerName,
					ServiceName:  b.ServiceName,
					StartTime:    b.StartTime,
					EndTime:      b.EndTime,
					IsStart:      b.ID != previous[i],
				}
				previous[i] = b.ID
			} else {
				previous[i] = ""
			}
			row.Cells[i] = cell
		}
		day.Rows = append(day.Rows, row)
	}

	return day
}

func overlapsAny(intervals []domain.TimeRange, rng domain.TimeRange) bool {
	for _, interval := range intervals {
		if interval.Overlaps(rng) {
			return true
		}
	}
	return false
}

func occupant(bookings []*domain.Booking, rng domain.TimeRange) *domain.Booking {
	var best *domain.Booking
	for _, b := range bookings {
		if !b.Range().Overlaps(rng) {
			continue
		}
		switch {
		case best == nil:
			best = b
		case b.IsActive() != best.IsActive():
			if b.IsActive() {
				best = b
			}
		case b.StartTime.IsBefore(best.StartTime):
			best = b
		}
	}
	return best
}
