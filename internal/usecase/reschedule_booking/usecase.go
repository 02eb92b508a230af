package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для переноса бронирования на другое время, дату, сотрудника или услугу
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      CatalogReader
	configs      ConfigProvider
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogReader,
	configs ConfigProvider,
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
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		configs:      configs,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// Execute переносит бронирование в отдельной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RescheduleBooking: booking id=%s", req.BookingID)

	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if req.Changes.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}

	var result *domain.Booking
	var event *domain.BookingEvent
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Сначала блокировка бронирования, потом блокировка (сотрудник, дата) внутри Apply
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if domain.KindOf(err) == domain.ErrNotFound {
				uc.logger.Warn("RescheduleBooking: booking id=%s not found", req.BookingID)
				return fmt.Errorf("%w: %s", ErrBookingNotFound, req.BookingID)
			}
			return uc.storageError("failed to get booking", err)
		}

		event, err = uc.Apply(txCtx, booking, req.Changes)
		if err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) && uc.metrics != nil {
			uc.metrics.IncBookingConflict("reschedule")
		}
		return nil, uc.storageError("transaction failed", err)
	}

	if event != nil && uc.notifier != nil {
		uc.notifier.Notify(ctx, *event)
	}
	return result, nil
}

// Apply переносит уже заблокированное бронирование внутри транзакции вызывающего.
// booking изменяется на месте. Если итоговые значения совпадают с текущими, ничего не пишет и возвращает nil событие.
func (uc *UseCase) Apply(ctx context.Context, booking *domain.Booking, changes Changes) (*domain.BookingEvent, error) {
	if err := validateChanges(changes); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%s is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotReschedulable, booking.Status)
	}

	// 1. Итоговые значения
	staffID := booking.StaffID
	if changes.StaffID != nil {
		staffID = *changes.StaffID
	}
	serviceID := booking.ServiceID
	if changes.ServiceID != nil {
		serviceID = *changes.ServiceID
	}
	date := domain.DateOnly(booking.Date)
	if changes.Date != nil {
		date = domain.DateOnly(*changes.Date)
	}
	start := booking.StartTime
	if changes.StartTime != nil {
		start = *changes.StartTime
	}

	serviceChanged := serviceID != booking.ServiceID
	if staffID == booking.StaffID && !serviceChanged && domain.SameDate(date, booking.Date) &&
		start.Minutes() == booking.StartTime.Minutes() {
		uc.logger.Info("RescheduleBooking: booking id=%s unchanged", booking.ID)
		return nil, nil
	}

	// 2. Политика записи: дата и минимальное время до начала
	now := uc.timeProvider.Now().In(uc.location)
	config, err := uc.configs.Effective(ctx)
	if err != nil {
		return nil, uc.storageError("failed to get config", err)
	}
	if err := config.CheckDate(date, now); err != nil {
		uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
		return nil, fmt.Errorf("reschedule_booking: %w", err)
	}

	// 3. Сотрудник нужен всегда: рабочие часы проверяются заново
	staff, err := uc.catalog.GetStaff(ctx, staffID)
	if err != nil {
		return nil, uc.catalogError(ErrStaffNotFound, staffID, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("RescheduleBooking: staff id=%s is inactive", staffID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrStaffNotFound, staffID)
	}

	// 4. Новая услуга - новый снимок; без смены услуги длительность остаётся прежней
	duration := booking.DurationMinutes
	serviceName, amount := booking.ServiceName, booking.Amount
	if serviceChanged {
		service, err := uc.catalog.GetService(ctx, serviceID)
		if err != nil {
			return nil, uc.catalogError(ErrServiceNotFound, serviceID, err)
		}
		if !service.IsActive {
			uc.logger.Warn("RescheduleBooking: service id=%s is inactive", serviceID)
			return nil, fmt.Errorf("%w: %s is inactive", ErrServiceNotFound, serviceID)
		}
		duration, serviceName, amount = service.DurationMinutes, service.Name, service.Price
	}

	rng, err := domain.NewTimeRange(start, duration)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: %s + %d min does not fit the day: %v", start, duration, err)
		return nil, fmt.Errorf("%w: %s + %d min ends after midnight", ErrOutOfHours, start, duration)
	}
	if err := config.CheckNotice(date, rng.Start.Minutes(), now); err != nil {
		uc.logger.Warn("RescheduleBooking: booking time validation failed: %v", err)
		return nil, fmt.Errorf("reschedule_booking: %w", err)
	}

	// 5. Блокируем прежнюю и новую области (сотрудник, дата) в одном порядке.
	// Прежняя остаётся закрытой до конца транзакции: откат возвращает бронирование на её место.
	for _, scope := range lockOrder(staffDay{booking.StaffID, booking.Date}, staffDay{staff.ID, date}) {
		if err := uc.bookingRepo.LockStaffDay(ctx, scope.staffID, scope.date); err != nil {
			return nil, uc.storageError("failed to lock staff day", err)
		}
	}
	bookings, err := uc.bookingRepo.ListActiveByStaffAndDate(ctx, staff.ID, date)
	if err != nil {
		return nil, uc.storageError("failed to get bookings", err)
	}
	if conflict, err := domain.CheckPlacement(staff, date, rng, bookings, booking.ID); err != nil {
		return nil, uc.placementError(conflict, err)
	}

	// 6. Сохраняем
	booking.StaffID = staff.ID
	booking.ServiceID = serviceID
	booking.ServiceName = serviceName
	booking.DurationMinutes = duration
	booking.Amount = amount
	booking.Date = date
	booking.StartTime = rng.Start
	booking.EndTime = rng.End
	booking.UpdatedAt = now

	if err := uc.bookingRepo.Reschedule(ctx, booking); err != nil {
		if domain.KindOf(err) == domain.ErrSlotConflict {
			return nil, uc.placementError(nil, err)
		}
		if domain.KindOf(err) == domain.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, booking.ID)
		}
		return nil, uc.storageError("failed to reschedule booking", err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%s moved to staff=%s %s %s",
		booking.ID, booking.StaffID, date.Format(domain.DateFormat), rng)

	event := domain.NewBookingEvent(domain.EventBookingRescheduled, booking, now)
	return &event, nil
}

func (uc *UseCase) placementError(conflict *domain.Booking, err error) error {
	switch domain.KindOf(err) {
	case domain.ErrOutOfHours:
		uc.logger.Warn("RescheduleBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrOutOfHours, err)
	case domain.ErrSlotConflict:
		if conflict != nil {
			uc.logger.Warn("RescheduleBooking: slot conflict with booking id=%s", conflict.ID)
		} else {
			uc.logger.Warn("RescheduleBooking: slot conflict rejected by storage: %v", err)
		}
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	default:
		return err
	}
}

// staffDay область блокировки (сотрудник, дата)
type staffDay struct {
	staffID string
	date    time.Time
}

func (s staffDay) key() string {
	return s.staffID + "|" + s.date.Format(domain.DateFormat)
}

// lockOrder возвращает различные области в порядке ключей, одинаковом для всех транзакций
func lockOrder(current, target staffDay) []staffDay {
	if current.key() == target.key() {
		return []staffDay{target}
	}
	if target.key() < current.key() {
		return []staffDay{target, current}
	}
	return []staffDay{current, target}
}

func (uc *UseCase) catalogError(notFound error, id string, err error) error {
	if domain.KindOf(err) == domain.ErrNotFound {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return uc.storageError("failed to read catalog", err)
}

func (uc *UseCase) storageError(step string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	uc.logger.Error("RescheduleBooking: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
}
