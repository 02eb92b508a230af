package get_schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newUseCase(f *usecasetest.Fixture) *UseCase {
	return NewUseCase(f.Store.Bookings(), f.Store.Catalog(), f.Configs, f.Store.TxManager(), f.Log)
}

func book(t *testing.T, f *usecasetest.Fixture, staffID, serviceID, start string) *domain.Booking {
	t.Helper()
	booking, err := create_booking.NewUseCase(
		f.Store.Bookings(), f.Store.Catalog(), f.Configs, nil, f.Store.TxManager(),
		nil, nil, f.Clock, time.UTC, f.Log,
	).Execute(f.Ctx, &create_booking.Request{
		CustomerID: "cust-1",
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       usecasetest.Monday,
		StartTime:  types.TimeString(start),
	})
	require.NoError(t, err)
	return booking
}

// render сворачивает день в строки "09:00 | pending* | ." для сравнения через cmp:
// "-" - нерабочее время, "." - свободно, статус со звездочкой - первая строка бронирования.
func render(day DaySchedule) []string {
	lines := make([]string, 0, len(day.Rows))
	for _, row := range day.Rows {
		line := row.StartTime.String()
		for _, cell := range row.Cells {
			switch {
			case cell.Booking != nil && cell.Booking.IsStart:
				line += fmt.Sprintf(" | %s*", cell.Booking.Status)
			case cell.Booking != nil:
				line += fmt.Sprintf(" | %s", cell.Booking.Status)
			case cell.Working:
				line += " | ."
			default:
				line += " | -"
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func TestGetSchedule_HourGrid(t *testing.T) {
	f := usecasetest.New(t)
	f.SetPolicy(t, domain.SchedulingConfig{SlotGranularityMinutes: 60})
	bookings := bookingsService.NewService(f.Store.Bookings(), f.Store.TxManager(), nil, nil, f.Clock, f.Log)

	book(t, f, usecasetest.StaffA, usecasetest.ServiceX, "09:00")     // 09:00-09:45
	book(t, f, usecasetest.StaffA, usecasetest.ServiceShort, "10:30") // 10:30-11:00

	completed := book(t, f, usecasetest.StaffA, usecasetest.ServiceX, "12:00")
	_, err := bookings.Transition(f.Ctx, completed.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	_, err = bookings.Transition(f.Ctx, completed.ID, domain.StatusCompleted)
	require.NoError(t, err)
	book(t, f, usecasetest.StaffA, usecasetest.ServiceShort, "12:30") // активное побеждает завершённое

	cancelled := book(t, f, usecasetest.StaffB, usecasetest.ServiceX, "14:00")
	_, err = bookings.Cancel(f.Ctx, cancelled.ID, nil)
	require.NoError(t, err)

	confirmed := book(t, f, usecasetest.StaffB, usecasetest.ServiceX, "15:00")
	_, err = bookings.Transition(f.Ctx, confirmed.ID, domain.StatusConfirmed)
	require.NoError(t, err)

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{Date: usecasetest.Monday})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.GranularityMinutes)
	assert.Equal(t, []StaffColumn{{ID: usecasetest.StaffA, Name: "Anna"}, {ID: usecasetest.StaffB, Name: "Boris"}}, resp.Staff)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2026-03-02", resp.Days[0].Date)

	want := []string{
		"09:00 | pending* | .",
		"10:00 | pending* | .",
		"11:00 | . | .",
		"12:00 | pending* | .",
		"13:00 | . | -",
		"14:00 | . | .",
		"15:00 | . | confirmed*",
		"16:00 | . | .",
		"17:00 | - | .",
	}
	if diff := cmp.Diff(want, render(resp.Days[0])); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSchedule_IsStartFollowsBookingChanges(t *testing.T) {
	f := usecasetest.New(t)
	bookings := bookingsService.NewService(f.Store.Bookings(), f.Store.TxManager(), nil, nil, f.Clock, f.Log)

	completed := book(t, f, usecasetest.StaffA, usecasetest.ServiceShort, "12:00")
	_, err := bookings.Transition(f.Ctx, completed.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	_, err = bookings.Transition(f.Ctx, completed.ID, domain.StatusCompleted)
	require.NoError(t, err)
	book(t, f, usecasetest.StaffA, usecasetest.ServiceShort, "12:30")
	book(t, f, usecasetest.StaffA, usecasetest.ServiceShort, "13:00") // вплотную к предыдущему

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{Date: usecasetest.Monday, StaffIDs: []string{usecasetest.StaffA}})
	require.NoError(t, err)
	require.Len(t, resp.Staff, 1)

	rows := render(resp.Days[0])
	require.Len(t, rows, 32, "09:00-17:00 at 15 minutes")

	// 12:00 - 16-я строка от 09:00
	want := []string{
		"11:45 | .",
		"12:00 | completed*",
		"12:15 | completed",
		"12:30 | pending*",
		"12:45 | pending",
		"13:00 | pending*",
		"13:15 | pending",
		"13:30 | .",
	}
	if diff := cmp.Diff(want, rows[11:19]); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSchedule_SeveralDays(t *testing.T) {
	f := usecasetest.New(t)

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{Date: usecasetest.Monday, Days: 7})
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)

	assert.NotEmpty(t, resp.Days[0].Rows)
	for _, day := range resp.Days[1:] {
		assert.NotNil(t, day.Rows)
		assert.Empty(t, day.Rows, "nobody works on %s", day.Date)
	}
	assert.Equal(t, "2026-03-08", resp.Days[6].Date)
}

func TestGetSchedule_ExplicitStaff(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f)

	resp, err := uc.Execute(f.Ctx, &Request{
		Date:     usecasetest.Monday,
		StaffIDs: []string{usecasetest.StaffInactive, usecasetest.StaffB, usecasetest.StaffInactive},
	})
	require.NoError(t, err)
	assert.Equal(t, []StaffColumn{{ID: usecasetest.StaffInactive, Name: "Vera"}, {ID: usecasetest.StaffB, Name: "Boris"}}, resp.Staff)
	for _, row := range resp.Days[0].Rows {
		assert.Len(t, row.Cells, 2)
	}
}

func TestGetSchedule_Errors(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"missing date", &Request{}, ErrInvalidInput},
		{"too many days", &Request{Date: usecasetest.Monday, Days: domain.MaxScheduleDays + 1}, domain.ErrInvalidRequest},
		{"negative days", &Request{Date: usecasetest.Monday, Days: -1}, ErrInvalidInput},
		{"unknown staff", &Request{Date: usecasetest.Monday, StaffIDs: []string{"nobody"}}, ErrStaffNotFound},
		{"blank staff", &Request{Date: usecasetest.Monday, StaffIDs: []string{" "}}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(f.Ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildDay_BookingOutsideWorkingHours(t *testing.T) {
	staff := []*domain.StaffMember{{
		ID:           "s1",
		WorkingHours: domain.WorkingHours{time.Monday: {{Start: "10:00", End: "11:00"}}},
	}}
	bookings := []*domain.Booking{
		{ID: "late", StaffID: "s1", Date: usecasetest.Monday, StartTime: "11:10", EndTime: "11:40", Status: domain.StatusConfirmed},
		{ID: "other", StaffID: "s2", Date: usecasetest.Monday, StartTime: "08:00", EndTime: "09:00", Status: domain.StatusConfirmed},
		{ID: "gone", StaffID: "s1", Date: usecasetest.Monday, StartTime: "07:00", EndTime: "08:00", Status: domain.StatusCancelled},
	}

	got := render(BuildDay(usecasetest.Monday, staff, bookings, 30))
	want := []string{
		"10:00 | .",
		"10:30 | .",
		"11:00 | confirmed*",
		"11:30 | confirmed",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}
