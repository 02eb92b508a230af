package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, events ...domain.BookingEvent) {
	m.Called(events)
}

func newUseCase(f *usecasetest.Fixture, notifier bookingsService.Notifier) *UseCase {
	rescheduler := reschedule_booking.NewUseCase(f.Store.Bookings(), f.Store.Catalog(), f.Configs,
		f.Store.TxManager(), nil, nil, f.Clock, time.UTC, f.Log)
	statuses := bookingsService.NewService(f.Store.Bookings(), f.Store.TxManager(), notifier, nil, f.Clock, f.Log)
	return NewUseCase(f.Store.Bookings(), rescheduler, statuses, f.Store.TxManager(), nil, f.Clock, f.Log)
}

func book(t *testing.T, f *usecasetest.Fixture, start string) *domain.Booking {
	t.Helper()
	booking, err := create_booking.NewUseCase(
		f.Store.Bookings(), f.Store.Catalog(), f.Configs, nil, f.Store.TxManager(),
		nil, nil, f.Clock, time.UTC, f.Log,
	).Execute(f.Ctx, &create_booking.Request{
		CustomerID: "cust-1",
		StaffID:    usecasetest.StaffA,
		ServiceID:  usecasetest.ServiceX,
		Date:       usecasetest.Monday,
		StartTime:  types.TimeString(start),
	})
	require.NoError(t, err)
	return booking
}

func stored(t *testing.T, f *usecasetest.Fixture, id string) *domain.Booking {
	t.Helper()
	booking, err := f.Store.Bookings().GetByID(f.Ctx, id)
	require.NoError(t, err)
	return booking
}

func TestUpdate_RescheduleAndConfirmTogether(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")

	notifier := &mockNotifier{}
	notifier.On("Notify", mock.MatchedBy(func(events []domain.BookingEvent) bool {
		return len(events) == 2 &&
			events[0].Type == domain.EventBookingRescheduled &&
			events[1].Type == domain.EventBookingConfirmed
	})).Once()

	updated, err := newUseCase(f, notifier).Execute(f.Ctx, &Request{
		BookingID: booking.ID,
		Changes:   reschedule_booking.Changes{StartTime: ptr.Ptr(types.TimeString("13:00"))},
		Status:    ptr.Ptr("confirmed"),
		Notes:     ptr.Ptr("  window seat  "),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, types.TimeString("13:00"), updated.StartTime)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "window seat", *updated.Notes)
	require.NotNil(t, updated.ConfirmedAt)

	saved := stored(t, f, booking.ID)
	assert.Equal(t, domain.StatusConfirmed, saved.Status)
	assert.Equal(t, types.TimeString("13:45"), saved.EndTime)
	require.NotNil(t, saved.Notes)
	assert.Equal(t, "window seat", *saved.Notes)
	notifier.AssertExpectations(t)
}

func TestUpdate_FailedStepRollsBackEverything(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")

	// pending -> completed запрещён, поэтому перенос и заметки тоже не сохраняются
	_, err := newUseCase(f, nil).Execute(f.Ctx, &Request{
		BookingID: booking.ID,
		Changes:   reschedule_booking.Changes{StartTime: ptr.Ptr(types.TimeString("13:00"))},
		Status:    ptr.Ptr("completed"),
		Notes:     ptr.Ptr("lost"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	saved := stored(t, f, booking.ID)
	assert.Equal(t, domain.StatusPending, saved.Status)
	assert.Equal(t, types.TimeString("09:00"), saved.StartTime)
	assert.Nil(t, saved.Notes)
}

func TestUpdate_SameStatusIsUnchanged(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")

	notifier := &mockNotifier{}
	updated, err := newUseCase(f, notifier).Execute(f.Ctx, &Request{
		BookingID: booking.ID,
		Status:    ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)
	assert.Equal(t, booking.StatusChangedAt, updated.StatusChangedAt)
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestUpdate_CancelWithReason(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")
	uc := newUseCase(f, nil)

	updated, err := uc.Execute(f.Ctx, &Request{
		BookingID:          booking.ID,
		Status:             ptr.Ptr("cancelled"),
		CancellationReason: ptr.Ptr("customer called"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	require.NotNil(t, updated.CancellationReason)
	assert.Equal(t, "customer called", *updated.CancellationReason)

	// повторная отмена ничего не меняет
	again, err := uc.Execute(f.Ctx, &Request{BookingID: booking.ID, Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, updated.StatusChangedAt, again.StatusChangedAt)

	// слот снова свободен
	book(t, f, "09:00")
}

func TestUpdate_NotesOnly(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")
	uc := newUseCase(f, nil)

	f.Clock.Set(usecasetest.Now.Add(time.Hour))
	updated, err := uc.Execute(f.Ctx, &Request{BookingID: booking.ID, Notes: ptr.Ptr("allergic to latex")})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, usecasetest.Now.Add(time.Hour), updated.UpdatedAt)

	// пустая строка очищает заметки
	updated, err = uc.Execute(f.Ctx, &Request{BookingID: booking.ID, Notes: ptr.Ptr("   ")})
	require.NoError(t, err)
	assert.Nil(t, updated.Notes)
	assert.Nil(t, stored(t, f, booking.ID).Notes)
}

func TestUpdate_Errors(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")
	book(t, f, "10:00")
	uc := newUseCase(f, nil)

	long := make([]rune, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'n'
	}

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"empty request", &Request{BookingID: booking.ID}, ErrInvalidInput},
		{"missing id", &Request{Status: ptr.Ptr("confirmed")}, ErrInvalidInput},
		{"unknown status", &Request{BookingID: booking.ID, Status: ptr.Ptr("archived")}, domain.ErrInvalidRequest},
		{"notes too long", &Request{BookingID: booking.ID, Notes: ptr.Ptr(string(long))}, ErrInvalidInput},
		{"not found", &Request{BookingID: "missing", Status: ptr.Ptr("confirmed")}, ErrBookingNotFound},
		{"conflict", &Request{BookingID: booking.ID, Changes: reschedule_booking.Changes{StartTime: ptr.Ptr(types.TimeString("09:30"))}}, domain.ErrSlotConflict},
		{"out of hours", &Request{BookingID: booking.ID, Changes: reschedule_booking.Changes{StartTime: ptr.Ptr(types.TimeString("17:00"))}}, domain.ErrOutOfHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(f.Ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// interleavedStatuses выполняет during перед сменой статуса, то есть после записи переноса
type interleavedStatuses struct {
	StatusService
	during func()
}

func (s *interleavedStatuses) ApplyTransition(ctx context.Context, booking *domain.Booking, next domain.BookingStatus) (*domain.BookingEvent, error) {
	s.during()
	return s.StatusService.ApplyTransition(ctx, booking, next)
}

// Перенос к другому сотруднику откатывается из-за недопустимого статуса.
// Запись на освобождённое время, пришедшая посреди транзакции, ждёт её конца и получает конфликт.
func TestUpdate_RollbackAfterMoveKeepsVacatedSlot(t *testing.T) {
	f := usecasetest.New(t)
	booking := book(t, f, "09:00")

	create := create_booking.NewUseCase(
		f.Store.Bookings(), f.Store.Catalog(), f.Configs, nil, f.Store.TxManager(),
		nil, nil, f.Clock, time.UTC, f.Log,
	)
	created := make(chan error, 1)
	statuses := &interleavedStatuses{
		StatusService: bookingsService.NewService(f.Store.Bookings(), f.Store.TxManager(), nil, nil, f.Clock, f.Log),
		during: func() {
			go func() {
				_, err := create.Execute(f.Ctx, &create_booking.Request{
					CustomerID: "cust-2",
					StaffID:    usecasetest.StaffA,
					ServiceID:  usecasetest.ServiceX,
					Date:       usecasetest.Monday,
					StartTime:  "09:00",
				})
				created <- err
			}()
			// без блокировки прежней области запись успевает пройти здесь
			select {
			case err := <-created:
				created <- err
			case <-time.After(100 * time.Millisecond):
			}
		},
	}
	rescheduler := reschedule_booking.NewUseCase(f.Store.Bookings(), f.Store.Catalog(), f.Configs,
		f.Store.TxManager(), nil, nil, f.Clock, time.UTC, f.Log)
	uc := NewUseCase(f.Store.Bookings(), rescheduler, statuses, f.Store.TxManager(), nil, f.Clock, f.Log)

	_, err := uc.Execute(f.Ctx, &Request{
		BookingID: booking.ID,
		Changes: reschedule_booking.Changes{
			StaffID:   ptr.Ptr(usecasetest.StaffB),
			StartTime: ptr.Ptr(types.TimeString("10:00")),
		},
		Status: ptr.Ptr("completed"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	select {
	case err := <-created:
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent create did not finish")
	}

	restored := stored(t, f, booking.ID)
	assert.Equal(t, usecasetest.StaffA, restored.StaffID)
	assert.Equal(t, types.TimeString("09:00"), restored.StartTime)
	assert.Equal(t, domain.StatusPending, restored.Status)
	f.AssertNoOverlap(t)
}
