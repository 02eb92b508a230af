// Package notifier publishes committed booking events. Delivery is
// fire-and-forget: a failed publish is logged and counted, never returned
// to the booking flow.
package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Notifier отправляет события в фоне с ограничением по времени на каждое
type Notifier struct {
	publisher Publisher
	timeout   time.Duration
	log       Logger
	metrics   MetricsRecorder
	wg        sync.WaitGroup
}

// New создает Notifier. publisher == nil отключает отправку.
func New(publisher Publisher, timeout time.Duration, log Logger, metrics MetricsRecorder) *Notifier {
	return &Notifier{
		publisher: publisher,
		timeout:   timeout,
		log:       log,
		metrics:   metrics,
	}
}

// Notify публикует события асинхронно; отмена ctx запроса на доставку не влияет
func (n *Notifier) Notify(ctx context.Context, events ...domain.BookingEvent) {
	if n == nil || n.publisher == nil || len(events) == 0 {
		return
	}

	base := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, event := range events {
			n.publish(base, event)
		}
	}()
}

func (n *Notifier) publish(ctx context.Context, event domain.BookingEvent) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	err := n.publisher.Publish(ctx, event)
	if n.metrics != nil {
		n.metrics.IncNotification(string(event.Type), err)
	}
	if err != nil {
		n.log.Warn("Failed to publish %s for booking_id=%s: %v", event.Type, event.BookingID, err)
	}
}

// Wait дожидается отправки уже поставленных событий
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

// Close дожидается отправки и закрывает соединение с брокером
func (n *Notifier) Close() error {
	if n == nil || n.publisher == nil {
		return nil
	}
	n.wg.Wait()
	return n.publisher.Close()
}
