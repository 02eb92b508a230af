package notifier

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Publisher доставляет событие в конкретный брокер
type Publisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder учитывает результат доставки
type MetricsRecorder interface {
	IncNotification(event string, err error)
}
