package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	customerClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	catalog        CatalogReader
	configs        ConfigProvider
	customerClient CustomerServiceClient
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// customerClient может быть nil - тогда имя клиента не сохраняется.
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogReader,
	configs ConfigProvider,
	customerClient CustomerServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		catalog:        catalog,
		configs:        configs,
		customerClient: customerClient,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		timeProvider:   timeProvider,
		location:       location,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции
// под блокировкой (сотрудник, дата), поэтому две конкурирующие записи не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	date := domain.DateOnly(req.Date)
	uc.logger.Info("CreateBooking: organization=%s, customer=%s, staff=%s, service=%s, date=%s, time=%s",
		orgID, req.CustomerID, req.StaffID, req.ServiceID, date.Format(domain.DateFormat), req.StartTime)

	// 2. Текущее время бизнеса и политика организации
	now := uc.timeProvider.Now().In(uc.location)
	config, err := uc.configs.Effective(ctx)
	if err != nil {
		return nil, uc.storageError("failed to get config", err)
	}

	// 3. Валидация даты с учетом политики
	if err := config.CheckDate(date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, fmt.Errorf("create_booking: %w", err)
	}

	// 4. Получаем сотрудника и услугу
	staff, err := uc.catalog.GetStaff(ctx, req.StaffID)
	if err != nil {
		return nil, uc.catalogError(ErrStaffNotFound, req.StaffID, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("CreateBooking: staff id=%s is inactive", req.StaffID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrStaffNotFound, req.StaffID)
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, uc.catalogError(ErrServiceNotFound, req.ServiceID, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%s is inactive", req.ServiceID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrServiceNotFound, req.ServiceID)
	}

	// 5. Интервал [start, start+duration); переход через полночь недопустим
	rng, err := domain.NewTimeRange(req.StartTime, service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: %s + %d min does not fit the day: %v", req.StartTime, service.DurationMinutes, err)
		return nil, fmt.Errorf("%w: %s + %d min ends after midnight", ErrOutOfHours, req.StartTime, service.DurationMinutes)
	}

	// 6. Минимальное время до начала
	if err := config.CheckNotice(date, rng.Start.Minutes(), now); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, fmt.Errorf("create_booking: %w", err)
	}

	// 7. Снимок имени клиента (если справочник подключён)
	customerName, err := uc.customerName(ctx, orgID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		CustomerID:      req.CustomerID,
		StaffID:         staff.ID,
		ServiceID:       service.ID,
		Date:            date,
		StartTime:       rng.Start,
		EndTime:         rng.End,
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		Amount:          service.Price,
		CustomerName:    customerName,
		Notes:           trimmed(req.Notes),
	}
	booking.ApplyStatus(config.InitialStatus(req.Confirm), now)

	// Переменная для хранения результата
	var result *domain.Booking

	// 8. Проверка и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Блокируем (сотрудник, дата)
		if err := uc.bookingRepo.LockStaffDay(txCtx, staff.ID, date); err != nil {
			return uc.storageError("failed to lock staff day", err)
		}

		// 8.2. Активные бронирования сотрудника на дату
		bookings, err := uc.bookingRepo.ListActiveByStaffAndDate(txCtx, staff.ID, date)
		if err != nil {
			return uc.storageError("failed to get bookings", err)
		}

		// 8.3. Рабочие часы, затем пересечения
		if conflict, err := domain.CheckPlacement(staff, date, rng, bookings, ""); err != nil {
			return uc.placementError(conflict, err)
		}

		// 8.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, domain.ErrSlotConflict) {
				return uc.placementError(nil, err)
			}
			return uc.storageError("failed to create booking", err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) && uc.metrics != nil {
			uc.metrics.IncBookingConflict("create")
		}
		return nil, uc.storageError("transaction failed", err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s (%s)", result.ID, result.Status)

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(string(result.Status))
	}
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingCreated, result, now))
	}

	return result, nil
}

// customerName возвращает имя клиента из справочника.
// Неизвестный клиент отклоняет запись, недоступный справочник - нет.
func (uc *UseCase) customerName(ctx context.Context, orgID, customerID string) (*string, error) {
	if uc.customerClient == nil {
		return nil, nil
	}

	customer, err := uc.customerClient.GetCustomerWithGracefulDegradation(ctx, orgID, customerID)
	if err != nil {
		if errors.Is(err, customerClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%s not found", customerID)
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
		}
		uc.logger.Warn("CreateBooking: customer directory unavailable, continuing without name: %v", err)
		return nil, nil
	}

	name := customer.Name
	return &name, nil
}

func (uc *UseCase) placementError(conflict *domain.Booking, err error) error {
	switch domain.KindOf(err) {
	case domain.ErrOutOfHours:
		uc.logger.Warn("CreateBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrOutOfHours, err)
	case domain.ErrSlotConflict:
		if conflict != nil {
			uc.logger.Warn("CreateBooking: slot conflict with booking id=%s", conflict.ID)
		} else {
			uc.logger.Warn("CreateBooking: slot conflict rejected by storage: %v", err)
		}
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	default:
		return err
	}
}

func (uc *UseCase) catalogError(notFound error, id string, err error) error {
	if domain.KindOf(err) == domain.ErrNotFound {
		uc.logger.Warn("CreateBooking: %v", err)
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return uc.storageError("failed to read catalog", err)
}

func (uc *UseCase) storageError(step string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	uc.logger.Error("CreateBooking: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
