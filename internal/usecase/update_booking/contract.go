package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateNotes(ctx context.Context, booking *domain.Booking) error
}

// Rescheduler переносит заблокированное бронирование внутри транзакции
type Rescheduler interface {
	Apply(ctx context.Context, booking *domain.Booking, changes reschedule_booking.Changes) (*domain.BookingEvent, error)
}

// StatusService меняет статус заблокированного бронирования и публикует события после коммита
type StatusService interface {
	ApplyTransition(ctx context.Context, booking *domain.Booking, next domain.BookingStatus) (*domain.BookingEvent, error)
	ApplyCancel(ctx context.Context, booking *domain.Booking, reason *string) (*domain.BookingEvent, error)
	Publish(ctx context.Context, events ...domain.BookingEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики бронирований
type Metrics interface {
	IncBookingConflict(operation string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
