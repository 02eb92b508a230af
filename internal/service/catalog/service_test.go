package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

func TestService_ListStaff(t *testing.T) {
	store := memory.NewStore()
	hours, err := memory.ParseWorkingHours(map[string][]string{
		"monday": {"14:00-17:00", "09:00-13:00"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Catalog().PutStaff("org-1", &domain.StaffMember{
		ID: "staff-a", Name: "Anna", WorkingHours: hours, IsActive: true,
	}))
	require.NoError(t, store.Catalog().PutStaff("org-1", &domain.StaffMember{
		ID: "staff-b", Name: "Boris",
	}))

	svc := NewService(store.Catalog(), logger.Nop())
	ctx := tenant.WithOrganization(context.Background(), "org-1")

	active, err := svc.ListStaff(ctx, true)
	require.NoError(t, err)
	require.Len(t, active.Staff, 1)
	assert.Equal(t, []models.IntervalResponse{
		{Start: "09:00", End: "13:00"},
		{Start: "14:00", End: "17:00"},
	}, active.Staff[0].WorkingHours["monday"])

	all, err := svc.ListStaff(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all.Staff, 2)
}

func TestService_ListServices(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Catalog().PutService("org-1", &domain.Service{
		ID: "svc-x", Name: "Haircut", DurationMinutes: 45, Price: 30, IsActive: true,
	}))

	svc := NewService(store.Catalog(), logger.Nop())
	resp, err := svc.ListServices(tenant.WithOrganization(context.Background(), "org-1"), true)
	require.NoError(t, err)
	assert.Equal(t, []models.ServiceResponse{
		{ID: "svc-x", Name: "Haircut", DurationMinutes: 45, Price: 30, IsActive: true},
	}, resp.Services)

	empty, err := svc.ListServices(tenant.WithOrganization(context.Background(), "org-2"), true)
	require.NoError(t, err)
	assert.Empty(t, empty.Services)
}

type failingCatalog struct {
	mock.Mock
}

func (f *failingCatalog) ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error) {
	args := f.Called(filter)
	return nil, args.Error(1)
}

func (f *failingCatalog) ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error) {
	args := f.Called(filter)
	return nil, args.Error(1)
}

func TestService_StorageError(t *testing.T) {
	reader := &failingCatalog{}
	reader.On("ListStaff", domain.CatalogFilter{ActiveOnly: true}).Return(nil, errors.New("connection reset"))

	svc := NewService(reader, logger.Nop())
	_, err := svc.ListStaff(context.Background(), true)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	reader.AssertExpectations(t)
}
