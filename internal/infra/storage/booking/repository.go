package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

const tableBookings = "bookings"

// pgExclusionViolation код ошибки postgres для EXCLUDE constraint
const pgExclusionViolation = "23P01"

// TIME читается как текст: lib/pq не разбирает "24:00:00" в time.Time
var bookingColumns = []string{
	"id",
	"organization_id",
	"customer_id",
	"customer_name",
	"staff_id",
	"service_id",
	"service_name",
	"booking_date",
	"start_time::text",
	"end_time::text",
	"duration_minutes",
	"amount",
	"status",
	"notes",
	"cancellation_reason",
	"status_changed_at",
	"confirmed_at",
	"completed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями.
// Все запросы ограничены организацией из контекста.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с активным бронированием того же сотрудника отклоняется exclusion constraint'ом (ErrSlotOccupied),
// это страховка на случай, если вызывающий код не взял блокировку LockStaffDay.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.OrganizationID = orgID

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"organization_id",
			"customer_id",
			"customer_name",
			"staff_id",
			"service_id",
			"service_name",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"amount",
			"status",
			"notes",
			"status_changed_at",
			"confirmed_at",
		).
		Values(
			booking.ID,
			orgID,
			booking.CustomerID,
			booking.CustomerName,
			booking.StaffID,
			booking.ServiceID,
			booking.ServiceName,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.Amount,
			booking.Status,
			booking.Notes,
			booking.StatusChangedAt,
			booking.ConfirmedAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotOccupied
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование и блокирует строку до конца транзакции.
// Вне транзакции ведёт себя как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id string, forUpdate bool) (*domain.Booking, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		// в колонке uuid, невалидный id просто не может существовать
		return nil, ErrBookingNotFound
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"organization_id": orgID, "id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования организации с фильтрацией.
// Сортировка по дате и времени начала (по возрастанию, либо по убыванию при NewestFirst).
//
// Примеры использования:
//
// 1. Расписание сотрудника на день:
//
//	filter := domain.BookingsFilter{StaffID: &staffID, StartDate: &day, EndDate: &day}
//
// 2. История клиента:
//
//	filter := domain.BookingsFilter{CustomerID: &customerID, NewestFirst: true}
//
// 3. Только подтвержденные за период:
//
//	status := domain.StatusConfirmed
//	filter := domain.BookingsFilter{StartDate: &from, EndDate: &to, Status: &status}
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.list(ctx, filter, false)
}

// ListActiveByStaffAndDate возвращает pending/confirmed бронирования сотрудника на дату.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) ListActiveByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Booking, error) {
	day := domain.DateOnly(date)
	filter := domain.BookingsFilter{
		StaffID:    &staffID,
		StartDate:  &day,
		EndDate:    &day,
		ActiveOnly: true,
	}
	return r.list(ctx, filter, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) list(ctx context.Context, filter domain.BookingsFilter, forUpdate bool) ([]*domain.Booking, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"organization_id": orgID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*filter.EndDate)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.ActiveStatuses})
	}

	if filter.NewestFirst {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_time ASC")
	}

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// LockStaffDay сериализует создание и перенос бронирований одного сотрудника на одну дату.
// Advisory lock освобождается при завершении транзакции.
func (r *Repository) LockStaffDay(ctx context.Context, staffID string, date time.Time) error {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return ErrTenantRequired
	}
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("%s|%s|%s", orgID, staffID, date.Format(domain.DateFormat))
	query, args, err := psqlbuilder.Select().
		Column("pg_advisory_xact_lock(hashtextextended(?, 0))", key).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockStaffDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockStaffDay - execute: %w", ErrExecQuery, err)
	}
	return nil
}

// UpdateStatus сохраняет статус и связанные с ним отметки времени
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, "UpdateStatus", booking.ID, map[string]interface{}{
		"status":              booking.Status,
		"status_changed_at":   booking.StatusChangedAt,
		"confirmed_at":        booking.ConfirmedAt,
		"completed_at":        booking.CompletedAt,
		"cancelled_at":        booking.CancelledAt,
		"cancellation_reason": booking.CancellationReason,
		"updated_at":          booking.UpdatedAt,
	})
}

// Reschedule сохраняет новые сотрудника, услугу, дату и интервал
func (r *Repository) Reschedule(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, "Reschedule", booking.ID, map[string]interface{}{
		"staff_id":         booking.StaffID,
		"service_id":       booking.ServiceID,
		"service_name":     booking.ServiceName,
		"booking_date":     domain.DateOnly(booking.Date),
		"start_time":       booking.StartTime,
		"end_time":         booking.EndTime,
		"duration_minutes": booking.DurationMinutes,
		"amount":           booking.Amount,
		"updated_at":       booking.UpdatedAt,
	})
}

// UpdateNotes обновляет заметки
func (r *Repository) UpdateNotes(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, "UpdateNotes", booking.ID, map[string]interface{}{
		"notes":      booking.Notes,
		"updated_at": booking.UpdatedAt,
	})
}

func (r *Repository) update(ctx context.Context, op, id string, values map[string]interface{}) error {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		SetMap(values).
		Where(squirrel.Eq{"organization_id": orgID, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotOccupied
		}
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		createdAt, updatedAt sql.NullTime
		statusChangedAt      sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.OrganizationID,
		&booking.CustomerID,
		&booking.CustomerName,
		&booking.StaffID,
		&booking.ServiceID,
		&booking.ServiceName,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.Amount,
		&booking.Status,
		&booking.Notes,
		&booking.CancellationReason,
		&statusChangedAt,
		&booking.ConfirmedAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = domain.DateOnly(booking.Date)
	booking.StatusChangedAt = statusChangedAt.Time
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation
}
