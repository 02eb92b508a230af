package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, events ...domain.BookingEvent) {
	m.Called(events)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) IncBookingCreated(status string) {
	m.Called(status)
}

func (m *mockMetrics) IncBookingConflict(operation string) {
	m.Called(operation)
}

type mockCustomers struct {
	mock.Mock
}

func (m *mockCustomers) GetCustomerWithGracefulDegradation(ctx context.Context, organizationID, customerID string) (*customerservice.Customer, error) {
	args := m.Called(organizationID, customerID)
	customer, _ := args.Get(0).(*customerservice.Customer)
	return customer, args.Error(1)
}

func newUseCase(f *usecasetest.Fixture, customers CustomerServiceClient, notifier Notifier, metrics Metrics) *UseCase {
	return NewUseCase(
		f.Store.Bookings(),
		f.Store.Catalog(),
		f.Configs,
		customers,
		f.Store.TxManager(),
		notifier,
		metrics,
		f.Clock,
		time.UTC,
		f.Log,
	)
}

func request(staffID, serviceID, start string) *Request {
	return &Request{
		CustomerID: "cust-1",
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       usecasetest.Monday,
		StartTime:  types.TimeString(start),
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := usecasetest.New(t)
	notifier := &mockNotifier{}
	metrics := &mockMetrics{}
	notifier.On("Notify", mock.MatchedBy(func(events []domain.BookingEvent) bool {
		return len(events) == 1 && events[0].Type == domain.EventBookingCreated
	})).Once()
	metrics.On("IncBookingCreated", "pending").Once()

	uc := newUseCase(f, nil, notifier, metrics)
	req := request(usecasetest.StaffA, usecasetest.ServiceX, "09:00")
	req.Notes = ptr.Ptr("  first visit ")

	booking, err := uc.Execute(f.Ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, usecasetest.OrgID, booking.OrganizationID)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, types.TimeString("09:00"), booking.StartTime)
	assert.Equal(t, types.TimeString("09:45"), booking.EndTime)
	assert.Equal(t, 45, booking.DurationMinutes)
	assert.Equal(t, 30.0, booking.Amount)
	assert.Equal(t, "Haircut", booking.ServiceName)
	assert.Equal(t, usecasetest.Now, booking.StatusChangedAt)
	assert.Nil(t, booking.ConfirmedAt)
	assert.Equal(t, ptr.Ptr("first visit"), booking.Notes)

	notifier.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestCreateBooking_InitialStatusPolicy(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	req := request(usecasetest.StaffA, usecasetest.ServiceX, "09:00")
	req.Confirm = ptr.Ptr(true)
	booking, err := uc.Execute(f.Ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	require.NotNil(t, booking.ConfirmedAt)

	f.SetPolicy(t, domain.SchedulingConfig{SlotGranularityMinutes: 15, AutoConfirm: true})
	booking, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	// явный confirm=false сильнее политики организации
	req = request(usecasetest.StaffA, usecasetest.ServiceX, "11:00")
	req.Confirm = ptr.Ptr(false)
	booking, err = uc.Execute(f.Ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, booking.Status)
}

func TestCreateBooking_OutOfHours(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	tests := []struct {
		name    string
		staffID string
		start   string
	}{
		{"ends after closing", usecasetest.StaffA, "16:45"},
		{"starts before opening", usecasetest.StaffA, "08:30"},
		{"spans lunch break", usecasetest.StaffB, "12:30"},
		{"crosses midnight", usecasetest.StaffA, "23:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(f.Ctx, request(tt.staffID, usecasetest.ServiceX, tt.start))
			assert.ErrorIs(t, err, ErrOutOfHours)
			assert.ErrorIs(t, err, domain.ErrOutOfHours)
		})
	}

	// другой день недели - нерабочий
	req := request(usecasetest.StaffA, usecasetest.ServiceX, "10:00")
	req.Date = usecasetest.Monday.AddDate(0, 0, 1)
	_, err := uc.Execute(f.Ctx, req)
	assert.ErrorIs(t, err, domain.ErrOutOfHours)

	assert.Empty(t, f.ActiveBookings(t))
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	f := usecasetest.New(t)
	metrics := &mockMetrics{}
	metrics.On("IncBookingCreated", mock.Anything)
	metrics.On("IncBookingConflict", "create").Once()
	uc := newUseCase(f, nil, nil, metrics)

	_, err := uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "09:00"))
	require.NoError(t, err)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceShort, "09:30"))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	// смежный интервал не конфликтует
	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceShort, "09:45"))
	assert.NoError(t, err)

	metrics.AssertExpectations(t)
	f.AssertNoOverlap(t)
}

func TestCreateBooking_OutOfHoursReportedBeforeConflict(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	_, err := uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "16:00"))
	require.NoError(t, err)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "16:30"))
	assert.ErrorIs(t, err, domain.ErrOutOfHours)
}

func TestCreateBooking_CatalogChecks(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	_, err := uc.Execute(f.Ctx, request("nobody", usecasetest.ServiceX, "09:00"))
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffInactive, usecasetest.ServiceX, "09:00"))
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, "nothing", "09:00"))
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceInactive, "09:00"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBooking_InvalidRequest(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	missingCustomer := request(usecasetest.StaffA, usecasetest.ServiceX, "09:00")
	missingCustomer.CustomerID = ""

	badTime := request(usecasetest.StaffA, usecasetest.ServiceX, "9am")

	past := request(usecasetest.StaffA, usecasetest.ServiceX, "09:00")
	past.Date = usecasetest.Now.AddDate(0, 0, -6)

	for name, req := range map[string]*Request{
		"missing customer": missingCustomer,
		"bad time":         badTime,
		"past date":        past,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(f.Ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}

	_, err := uc.Execute(context.Background(), request(usecasetest.StaffA, usecasetest.ServiceX, "09:00"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest, "tenant is required")
}

func TestCreateBooking_PolicyWindow(t *testing.T) {
	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	f.SetPolicy(t, domain.SchedulingConfig{SlotGranularityMinutes: 15, AdvanceBookingDays: 7, MinBookingNoticeMinutes: 60})

	far := request(usecasetest.StaffA, usecasetest.ServiceX, "09:00")
	far.Date = usecasetest.Monday.AddDate(0, 0, 7)
	_, err := uc.Execute(f.Ctx, far)
	assert.ErrorIs(t, err, domain.ErrDateTooFar)

	// сегодня 09:30, минимум за час
	f.Clock.Set(usecasetest.Monday.Add(9*time.Hour + 30*time.Minute))
	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "10:15"))
	assert.ErrorIs(t, err, domain.ErrTooLateToBook)

	_, err = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "10:30"))
	assert.NoError(t, err)
}

func TestCreateBooking_CustomerDirectory(t *testing.T) {
	f := usecasetest.New(t)
	customers := &mockCustomers{}
	customers.On("GetCustomerWithGracefulDegradation", usecasetest.OrgID, "cust-1").
		Return(&customerservice.Customer{ID: "cust-1", Name: "Ivan"}, nil).Once()
	customers.On("GetCustomerWithGracefulDegradation", usecasetest.OrgID, "ghost").
		Return(nil, customerservice.ErrCustomerNotFound).Once()
	customers.On("GetCustomerWithGracefulDegradation", usecasetest.OrgID, "cust-2").
		Return(nil, customerservice.ErrServiceDegraded).Once()

	uc := newUseCase(f, customers, nil, nil)

	booking, err := uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, "09:00"))
	require.NoError(t, err)
	assert.Equal(t, ptr.Ptr("Ivan"), booking.CustomerName)

	ghost := request(usecasetest.StaffA, usecasetest.ServiceX, "10:00")
	ghost.CustomerID = "ghost"
	_, err = uc.Execute(f.Ctx, ghost)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	degraded := request(usecasetest.StaffA, usecasetest.ServiceX, "11:00")
	degraded.CustomerID = "cust-2"
	booking, err = uc.Execute(f.Ctx, degraded)
	require.NoError(t, err)
	assert.Nil(t, booking.CustomerName)

	customers.AssertExpectations(t)
}

func TestCreateBooking_ConcurrentRace(t *testing.T) {
	const attempts = 8

	f := usecasetest.New(t)
	uc := newUseCase(f, nil, nil, nil)

	starts := []string{"10:00", "10:15", "10:30"}
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	ready := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-ready
			_, errs[i] = uc.Execute(f.Ctx, request(usecasetest.StaffA, usecasetest.ServiceX, starts[i%len(starts)]))
		}(i)
	}
	close(ready)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrSlotConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "overlapping concurrent creates must produce exactly one booking")
	assert.Len(t, f.ActiveBookings(t), 1)
	f.AssertNoOverlap(t)
}

func TestCreateBooking_BeginFailureIsUnavailable(t *testing.T) {
	f := usecasetest.New(t)

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	dbMock.ExpectBegin().WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	metrics := &mockMetrics{}
	uc := NewUseCase(
		f.Store.Bookings(),
		f.Store.Catalog(),
		f.Configs,
		nil,
		txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil)),
		nil,
		metrics,
		f.Clock,
		time.UTC,
		f.Log,
	)

	_, err = uc.Execute(f.Ctx, &Request{
		CustomerID: "cust-1",
		StaffID:    usecasetest.StaffA,
		ServiceID:  usecasetest.ServiceX,
		Date:       usecasetest.Monday,
		StartTime:  "09:00",
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, err, txmanager.ErrBeginTx)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	metrics.AssertNotCalled(t, "IncBookingConflict", mock.Anything)
}
