package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func orgCtx() context.Context {
	return tenant.WithOrganization(context.Background(), "org-1")
}

func TestRepository_GetStaff(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT id, organization_id, name, is_active FROM staff WHERE`).
		WithArgs("staff-a", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "is_active"}).
			AddRow("staff-a", "org-1", "Anna", true))
	mock.ExpectQuery(`SELECT staff_id, weekday, start_time::text, end_time::text FROM staff_working_hours`).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "weekday", "start_time", "end_time"}).
			AddRow("staff-a", 1, "13:00:00", "17:00:00").
			AddRow("staff-a", 1, "09:00:00", "12:00:00").
			AddRow("staff-a", 6, "10:00:00", "24:00:00"))

	staff, err := repo.GetStaff(orgCtx(), "staff-a")

	require.NoError(t, err)
	assert.Equal(t, "Anna", staff.Name)
	assert.True(t, staff.IsActive)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	intervals := staff.WorkingHours.IntervalsFor(monday)
	require.Len(t, intervals, 2)
	assert.Equal(t, "09:00", intervals[0].Start.String())
	assert.Equal(t, "17:00", intervals[1].End.String())
	assert.Equal(t, "24:00", staff.WorkingHours[time.Saturday][0].End.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetStaff_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM staff WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "is_active"}))

	_, err := repo.GetStaff(orgCtx(), "missing")

	assert.ErrorIs(t, err, ErrStaffNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ListStaff_Empty(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM staff WHERE organization_id = \$1 AND is_active = \$2 ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "is_active"}))

	staff, err := repo.ListStaff(orgCtx(), domain.CatalogFilter{ActiveOnly: true})

	require.NoError(t, err)
	assert.Empty(t, staff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListServices(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`SELECT id, organization_id, name, duration_minutes, price, is_active FROM services`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "duration_minutes", "price", "is_active"}).
			AddRow("svc-x", "org-1", "Haircut", 45, "30.00", true).
			AddRow("svc-y", "org-1", "Shave", 20, "12.50", false))

	services, err := repo.ListServices(orgCtx(), domain.CatalogFilter{})

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 45, services[0].DurationMinutes)
	assert.InDelta(t, 12.5, services[1].Price, 0.001)
	assert.False(t, services[1].IsActive)
}

func TestRepository_GetService_RequiresTenant(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.GetService(context.Background(), "svc-x")

	assert.ErrorIs(t, err, ErrTenantRequired)
}
