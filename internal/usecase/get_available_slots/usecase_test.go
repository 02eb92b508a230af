package get_available_slots

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newUseCase(f *usecasetest.Fixture) *UseCase {
	return NewUseCase(f.Store.Bookings(), f.Store.Catalog(), f.Configs, f.Clock, time.UTC, f.Log)
}

func newCreate(f *usecasetest.Fixture) *create_booking.UseCase {
	return create_booking.NewUseCase(
		f.Store.Bookings(), f.Store.Catalog(), f.Configs, nil, f.Store.TxManager(),
		nil, nil, f.Clock, time.UTC, f.Log,
	)
}

func book(t *testing.T, f *usecasetest.Fixture, staffID, serviceID, start string) *domain.Booking {
	t.Helper()
	booking, err := newCreate(f).Execute(f.Ctx, &create_booking.Request{
		CustomerID: "cust-1",
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       usecasetest.Monday,
		StartTime:  types.TimeString(start),
	})
	require.NoError(t, err)
	return booking
}

func starts(slots []domain.AvailableSlot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.StartTime.String())
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGetAvailableSlots_AfterFirstBooking(t *testing.T) {
	f := usecasetest.New(t)
	book(t, f, usecasetest.StaffA, usecasetest.ServiceX, "09:00")

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{
		StaffID:   usecasetest.StaffA,
		ServiceID: usecasetest.ServiceX,
		Date:      usecasetest.Monday,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, 15, resp.GranularityMinutes)

	got := starts(resp.Slots)
	for _, taken := range []string{"09:00", "09:15", "09:30"} {
		assert.False(t, contains(got, taken), "%s overlaps the 09:00 booking", taken)
	}
	assert.Equal(t, "09:45", got[0])
	assert.Equal(t, "16:15", got[len(got)-1], "the last 45 minute slot must end by 17:00")
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[0].EndTime)
}

func TestGetAvailableSlots_SplitDayAndGranularity(t *testing.T) {
	f := usecasetest.New(t)
	f.SetPolicy(t, domain.SchedulingConfig{SlotGranularityMinutes: 60})

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{
		StaffID:   usecasetest.StaffB,
		ServiceID: usecasetest.ServiceX,
		Date:      usecasetest.Monday,
	})
	require.NoError(t, err)

	want := []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00"}
	if diff := cmp.Diff(want, starts(resp.Slots)); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAvailableSlots_EmptyDayIsNotAnError(t *testing.T) {
	f := usecasetest.New(t)

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{
		StaffID:   usecasetest.StaffA,
		ServiceID: usecasetest.ServiceX,
		Date:      usecasetest.Monday.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestGetAvailableSlots_Errors(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"unknown staff", &Request{StaffID: "nobody", ServiceID: usecasetest.ServiceX, Date: usecasetest.Monday}, ErrStaffNotFound},
		{"inactive staff", &Request{StaffID: usecasetest.StaffInactive, ServiceID: usecasetest.ServiceX, Date: usecasetest.Monday}, ErrStaffNotFound},
		{"unknown service", &Request{StaffID: usecasetest.StaffA, ServiceID: "nothing", Date: usecasetest.Monday}, ErrServiceNotFound},
		{"inactive service", &Request{StaffID: usecasetest.StaffA, ServiceID: usecasetest.ServiceInactive, Date: usecasetest.Monday}, domain.ErrNotFound},
		{"past date", &Request{StaffID: usecasetest.StaffA, ServiceID: usecasetest.ServiceX, Date: usecasetest.Monday.AddDate(0, 0, -7)}, domain.ErrDateInPast},
		{"missing staff", &Request{ServiceID: usecasetest.ServiceX, Date: usecasetest.Monday}, ErrInvalidInput},
		{"missing date", &Request{StaffID: usecasetest.StaffA, ServiceID: usecasetest.ServiceX}, domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(f.Ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetAvailableSlots_MinNoticeToday(t *testing.T) {
	f := usecasetest.New(t)
	f.SetPolicy(t, domain.SchedulingConfig{SlotGranularityMinutes: 15, MinBookingNoticeMinutes: 30})
	f.Clock.Set(usecasetest.Monday.Add(10*time.Hour + 5*time.Minute))

	resp, err := newUseCase(f).Execute(f.Ctx, &Request{
		StaffID:   usecasetest.StaffA,
		ServiceID: usecasetest.ServiceShort,
		Date:      usecasetest.Monday,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "10:45", resp.Slots[0].StartTime.String())
}

// Каждое начало дня на сетке проверяется созданием записи в отдельном хранилище:
// список слотов должен совпасть ровно с теми началами, где создание проходит.
func TestGetAvailableSlots_SoundAndComplete(t *testing.T) {
	existing := []struct{ staff, service, start string }{
		{usecasetest.StaffB, usecasetest.ServiceX, "10:00"},
		{usecasetest.StaffB, usecasetest.ServiceShort, "15:10"}, // не на сетке
	}
	prepare := func(t *testing.T) *usecasetest.Fixture {
		f := usecasetest.New(t)
		for _, b := range existing {
			book(t, f, b.staff, b.service, b.start)
		}
		return f
	}

	f := prepare(t)
	resp, err := newUseCase(f).Execute(f.Ctx, &Request{
		StaffID:   usecasetest.StaffB,
		ServiceID: usecasetest.ServiceX,
		Date:      usecasetest.Monday,
	})
	require.NoError(t, err)

	var creatable []string
	for minutes := 0; minutes < domain.MinutesPerDay; minutes += resp.GranularityMinutes {
		start := types.MustFromMinutes(minutes)
		trial := prepare(t)
		_, err := newCreate(trial).Execute(trial.Ctx, &create_booking.Request{
			CustomerID: "cust-2",
			StaffID:    usecasetest.StaffB,
			ServiceID:  usecasetest.ServiceX,
			Date:       usecasetest.Monday,
			StartTime:  start,
		})
		if err == nil {
			creatable = append(creatable, start.String())
			continue
		}
		kind := domain.KindOf(err)
		require.True(t, kind == domain.ErrOutOfHours || kind == domain.ErrSlotConflict, "%s: %v", start, err)
	}

	if diff := cmp.Diff(creatable, starts(resp.Slots)); diff != "" {
		t.Errorf("slots differ from creatable starts (-creatable +slots):\n%s", diff)
	}
}

func TestGenerateSlots(t *testing.T) {
	intervals := []domain.TimeRange{
		{Start: "09:00", End: "10:00"},
		{Start: "22:00", End: "24:00"},
	}
	bookings := []*domain.Booking{
		{ID: "b1", StartTime: "09:20", EndTime: "09:40", Status: domain.StatusConfirmed},
		{ID: "b2", StartTime: "22:00", EndTime: "23:00", Status: domain.StatusCancelled},
	}

	got := starts(GenerateSlots(intervals, 20, 10, 0, bookings))
	want := []string{"09:00", "09:40", "22:00", "22:10", "22:20", "22:30", "22:40", "22:50", "23:00", "23:10", "23:20", "23:30", "23:40"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateSlots mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, GenerateSlots(intervals, 20, 10, domain.MinutesPerDay+1, nil))
	assert.Empty(t, GenerateSlots(intervals, 0, 10, 0, nil))
}
