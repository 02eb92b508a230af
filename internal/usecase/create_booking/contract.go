package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListActiveByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Booking, error)
	// LockStaffDay сериализует запись к одному сотруднику на одну дату до конца транзакции
	LockStaffDay(ctx context.Context, staffID string, date time.Time) error
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

// CustomerServiceClient интерфейс клиента справочника клиентов
type CustomerServiceClient interface {
	GetCustomerWithGracefulDegradation(ctx context.Context, organizationID, customerID string) (*customerservice.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикует события после фиксации транзакции
type Notifier interface {
	Notify(ctx context.Context, events ...domain.BookingEvent)
}

// Metrics счетчики создания бронирований
type Metrics interface {
	IncBookingCreated(status string)
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
