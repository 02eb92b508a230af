package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CatalogReader интерфейс чтения каталога
type CatalogReader interface {
	GetStaff(ctx context.Context, id string) (*domain.StaffMember, error)
	ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error)
}

// ConfigProvider возвращает действующую политику записи организации
type ConfigProvider interface {
	Effective(ctx context.Context) (*domain.SchedulingConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
