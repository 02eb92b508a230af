package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      CatalogReader
	configs      ConfigProvider
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс бизнеса, в котором считаются "сегодня" и минимальное время до записи.
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogReader,
	configs ConfigProvider,
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
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов. Пустой список не ошибка.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)
	uc.logger.Info("GetAvailableSlots: staff=%s, service=%s, date=%s",
		req.StaffID, req.ServiceID, date.Format(domain.DateFormat))

	// 2. Текущее время бизнеса и политика организации
	now := uc.timeProvider.Now().In(uc.location)
	config, err := uc.configs.Effective(ctx)
	if err != nil {
		return nil, uc.storageError("failed to get config", err)
	}

	// 3. Дата не в прошлом и не дальше горизонта записи
	if err := config.CheckDate(date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, fmt.Errorf("get_available_slots: %w", err)
	}

	// 4. Сотрудник и услуга должны существовать и быть активными
	staff, err := uc.catalog.GetStaff(ctx, req.StaffID)
	if err != nil {
		return nil, uc.catalogError(ErrStaffNotFound, req.StaffID, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%s is inactive", req.StaffID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrStaffNotFound, req.StaffID)
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, uc.catalogError(ErrServiceNotFound, req.ServiceID, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%s is inactive", req.ServiceID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrServiceNotFound, req.ServiceID)
	}

	response := &Response{
		Date:               date,
		StaffID:            staff.ID,
		ServiceID:          service.ID,
		DurationMinutes:    service.DurationMinutes,
		GranularityMinutes: config.SlotGranularityMinutes,
		Slots:              []domain.AvailableSlot{},
	}

	// 5. Рабочие интервалы на день недели
	intervals := staff.WorkingHours.IntervalsFor(date)
	if len(intervals) == 0 {
		uc.logger.Info("GetAvailableSlots: staff id=%s does not work on %s", staff.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Активные бронирования сотрудника на эту дату
	bookings, err := uc.bookingRepo.ListActiveByStaffAndDate(ctx, staff.ID, date)
	if err != nil {
		return nil, uc.storageError("failed to get bookings", err)
	}

	// 7. Генерируем свободные начала
	response.Slots = GenerateSlots(
		intervals,
		service.DurationMinutes,
		config.SlotGranularityMinutes,
		config.BookableFrom(date, now),
		bookings,
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for staff=%s, service=%s, date=%s",
		len(response.Slots), staff.ID, service.ID, date.Format(domain.DateFormat))
	return response, nil
}

func (uc *UseCase) catalogError(notFound error, id string, err error) error {
	if domain.KindOf(err) == domain.ErrNotFound {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return uc.storageError("failed to read catalog", err)
}

func (uc *UseCase) storageError(step string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	uc.logger.Error("GetAvailableSlots: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
}
