package get_schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для построения сетки расписания сотрудников
type UseCase struct {
	bookingRepo BookingRepository
	catalog     CatalogReader
	configs     ConfigProvider
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogReader,
	configs ConfigProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		configs:     configs,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute строит сетку. Только чтение: сотрудники и бронирования читаются одним снимком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSchedule: validation failed: %v", err)
		return nil, err
	}
	from := domain.DateOnly(req.Date)
	to := from.AddDate(0, 0, req.Days-1)
	uc.logger.Info("GetSchedule: from=%s, days=%d, staff=%v", from.Format(domain.DateFormat), req.Days, req.StaffIDs)

	// 2. Шаг сетки из политики организации
	config, err := uc.configs.Effective(ctx)
	if err != nil {
		return nil, uc.storageError("failed to get config", err)
	}

	var staff []*domain.StaffMember
	var bookings []*domain.Booking

	// 3. Сотрудники и бронирования периода
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		staff, err = uc.loadStaff(txCtx, req.StaffIDs)
		if err != nil {
			return err
		}

		bookings, err = uc.bookingRepo.List(txCtx, domain.BookingsFilter{StartDate: &from, EndDate: &to})
		if err != nil {
			return uc.storageError("failed to list bookings", err)
		}
		return nil
	})
	if err != nil {
		return nil, uc.storageError("transaction failed", err)
	}

	// 4. Сетка по дням
	resp := &Response{
		GranularityMinutes: config.SlotGranularityMinutes,
		Staff:              make([]StaffColumn, 0, len(staff)),
		Days:               make([]DaySchedule, 0, req.Days),
	}
	for _, s := range staff {
		resp.Staff = append(resp.Staff, StaffColumn{ID: s.ID, Name: s.Name})
	}
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		resp.Days = append(resp.Days, BuildDay(date, staff, bookings, config.SlotGranularityMinutes))
	}

	uc.logger.Info("GetSchedule: built %d days for %d staff from %d bookings", len(resp.Days), len(staff), len(bookings))
	return resp, nil
}

// loadStaff возвращает запрошенных сотрудников в порядке запроса без повторов,
// либо всех активных, если список пуст
func (uc *UseCase) loadStaff(ctx context.Context, ids []string) ([]*domain.StaffMember, error) {
	if len(ids) == 0 {
		staff, err := uc.catalog.ListStaff(ctx, domain.CatalogFilter{ActiveOnly: true})
		if err != nil {
			return nil, uc.storageError("failed to list staff", err)
		}
		return staff, nil
	}

	seen := make(map[string]struct{}, len(ids))
	staff := make([]*domain.StaffMember, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		member, err := uc.catalog.GetStaff(ctx, id)
		if err != nil {
			if domain.KindOf(err) == domain.ErrNotFound {
				uc.logger.Warn("GetSchedule: staff id=%s not found", id)
				return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, id)
			}
			return nil, uc.storageError("failed to get staff", err)
		}
		staff = append(staff, member)
	}
	return staff, nil
}

func (uc *UseCase) storageError(step string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	uc.logger.Error("GetSchedule: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
}
