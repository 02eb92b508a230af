package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

func testEvent(eventType domain.EventType) domain.BookingEvent {
	booking := &domain.Booking{
		ID:             "b-1",
		OrganizationID: "org-1",
		CustomerID:     "cust-1",
		StaffID:        "staff-a",
		ServiceID:      "svc-x",
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:      "09:00",
		EndTime:        "09:45",
		Status:         domain.StatusPending,
	}
	return domain.NewBookingEvent(eventType, booking, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestRedisPublisher_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(client, "appointments.events")

	event := testEvent(domain.EventBookingCreated)
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectPublish("appointments.events", string(payload)).SetVal(1)

	require.NoError(t, publisher.Publish(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPublisher_PublishError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(client, "appointments.events")

	event := testEvent(domain.EventBookingCancelled)
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectPublish("appointments.events", string(payload)).SetErr(errors.New("connection refused"))

	err = publisher.Publish(context.Background(), event)
	assert.Error(t, err)
}

func TestNotifier_DeliversInOrderAndCounts(t *testing.T) {
	publisher := &recordingPublisher{}
	m := metrics.NewWithRegisterer("appointments", prometheus.NewRegistry())
	n := New(publisher, time.Second, logger.Nop(), m)

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, testEvent(domain.EventBookingRescheduled), testEvent(domain.EventBookingConfirmed))
	// отмена запроса после Notify не отменяет доставку
	cancel()
	n.Wait()

	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.EventBookingRescheduled, publisher.events[0].Type)
	assert.Equal(t, domain.EventBookingConfirmed, publisher.events[1].Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("booking.confirmed", "ok")))

	require.NoError(t, n.Close())
	assert.True(t, publisher.closed)
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	m := metrics.NewWithRegisterer("appointments", prometheus.NewRegistry())
	n := New(publisher, time.Second, logger.Nop(), m)

	n.Notify(context.Background(), testEvent(domain.EventBookingCreated))
	n.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("booking.created", "error")))
}

func TestNotifier_Disabled(t *testing.T) {
	n := New(nil, time.Second, logger.Nop(), nil)
	n.Notify(context.Background(), testEvent(domain.EventBookingCreated))
	n.Wait()
	assert.NoError(t, n.Close())

	var nilNotifier *Notifier
	nilNotifier.Notify(context.Background(), testEvent(domain.EventBookingCreated))
}

func TestNewFromConfig_LocalDrivers(t *testing.T) {
	for _, driver := range []string{config.NotifierDriverNone, config.NotifierDriverLog} {
		n, err := NewFromConfig(context.Background(), config.Notifications{Driver: driver, Timeout: 1}, logger.Nop(), nil)
		require.NoError(t, err, driver)
		assert.NotNil(t, n)
	}

	_, err := NewFromConfig(context.Background(), config.Notifications{Driver: "carrier-pigeon"}, logger.Nop(), nil)
	assert.Error(t, err)
}
