package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

const tableSchedulingConfig = "scheduling_config"

var configColumns = []string{
	"organization_id",
	"slot_granularity_minutes",
	"auto_confirm",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий политики записи организации (одна строка на организацию)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает политику организации из контекста.
// Если строки нет, возвращает ErrConfigNotFound: значения по умолчанию подставляет сервис.
func (r *Repository) Get(ctx context.Context) (*domain.SchedulingConfig, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From(tableSchedulingConfig).
		Where(squirrel.Eq{"organization_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %w", ErrScanRow, err)
	}

	return config, nil
}

// Upsert создает или полностью перезаписывает политику организации
func (r *Repository) Upsert(ctx context.Context, config *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSchedulingConfig).
		Columns(
			"organization_id",
			"slot_granularity_minutes",
			"auto_confirm",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			orgID,
			config.SlotGranularityMinutes,
			config.AutoConfirm,
			config.AdvanceBookingDays,
			config.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT (organization_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			auto_confirm = EXCLUDED.auto_confirm,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	saved := *config
	saved.OrganizationID = orgID
	saved.CreatedAt = createdAt.Time
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}

// Delete удаляет политику организации, после чего действуют значения по умолчанию
func (r *Repository) Delete(ctx context.Context) error {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return ErrTenantRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableSchedulingConfig).
		Where(squirrel.Eq{"organization_id": orgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.SchedulingConfig, error) {
	var (
		config               domain.SchedulingConfig
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(
		&config.OrganizationID,
		&config.SlotGranularityMinutes,
		&config.AutoConfirm,
		&config.AdvanceBookingDays,
		&config.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time
	return &config, nil
}
