package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListActiveByStaffAndDate получает pending/confirmed бронирования сотрудника на дату
	ListActiveByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Booking, error)
}

// CatalogReader интерфейс чтения каталога сотрудников и услуг
type CatalogReader interface {
	GetStaff(ctx context.Context, id string) (*domain.StaffMember, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
}

// ConfigProvider возвращает действующую политику записи организации
type ConfigProvider interface {
	Effective(ctx context.Context) (*domain.SchedulingConfig, error)
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
