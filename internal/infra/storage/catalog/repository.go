package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	tableStaff        = "staff"
	tableWorkingHours = "staff_working_hours"
	tableServices     = "services"
)

// Repository репозиторий каталога: сотрудники, их рабочие часы и услуги.
// Каталог только читается, изменения приходят извне (миграции, админка).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStaff получает сотрудника вместе с рабочими часами
func (r *Repository) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "organization_id", "name", "is_active").
		From(tableStaff).
		Where(squirrel.Eq{"organization_id": orgID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.OrganizationID,
		&staff.Name,
		&staff.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %w", ErrScanRow, err)
	}

	hours, err := r.workingHours(ctx, orgID, []string{staff.ID})
	if err != nil {
		return nil, err
	}
	staff.WorkingHours = hours[staff.ID]
	if staff.WorkingHours == nil {
		staff.WorkingHours = domain.WorkingHours{}
	}

	return &staff, nil
}

// ListStaff получает сотрудников организации, отсортированных по имени
func (r *Repository) ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "organization_id", "name", "is_active").
		From(tableStaff).
		Where(squirrel.Eq{"organization_id": orgID}).
		OrderBy("name ASC", "id ASC")
	if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.StaffMember, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var member domain.StaffMember
		if err := rows.Scan(&member.ID, &member.OrganizationID, &member.Name, &member.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListStaff - scan staff: %w", ErrScanRow, err)
		}
		member.WorkingHours = domain.WorkingHours{}
		staff = append(staff, &member)
		ids = append(ids, member.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaff - rows iteration: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return staff, nil
	}

	hours, err := r.workingHours(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}
	for _, member := range staff {
		if wh, ok := hours[member.ID]; ok {
			member.WorkingHours = wh
		}
	}

	return staff, nil
}

// workingHours загружает интервалы рабочих часов для набора сотрудников одним запросом
func (r *Repository) workingHours(ctx context.Context, orgID string, staffIDs []string) (map[string]domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// TIME читается как текст: lib/pq не разбирает "24:00:00" в time.Time
	query, args, err := psqlbuilder.Select("staff_id", "weekday", "start_time::text", "end_time::text").
		From(tableWorkingHours).
		Where(squirrel.Eq{"organization_id": orgID, "staff_id": staffIDs}).
		OrderBy("staff_id", "weekday", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: workingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: workingHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string]domain.WorkingHours, len(staffIDs))
	for rows.Next() {
		var (
			staffID    string
			weekday    int
			start, end types.TimeString
		)
		if err := rows.Scan(&staffID, &weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: workingHours - scan interval: %w", ErrScanRow, err)
		}
		if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
			return nil, fmt.Errorf("%w: workingHours - weekday %d out of range", ErrScanRow, weekday)
		}
		if result[staffID] == nil {
			result[staffID] = domain.WorkingHours{}
		}
		day := time.Weekday(weekday)
		result[staffID][day] = append(result[staffID][day], domain.TimeRange{Start: start, End: end})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: workingHours - rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

var serviceColumns = []string{"id", "organization_id", "name", "duration_minutes", "price", "is_active"}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From(tableServices).
		Where(squirrel.Eq{"organization_id": orgID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return service, nil
}

// ListServices получает услуги организации, отсортированные по имени
func (r *Repository) ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From(tableServices).
		Where(squirrel.Eq{"organization_id": orgID}).
		OrderBy("name ASC", "id ASC")
	if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan service: %w", ErrScanRow, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows iteration: %w", ErrScanRow, err)
	}

	return services, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var service domain.Service
	err := row.Scan(
		&service.ID,
		&service.OrganizationID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &service, nil
}
