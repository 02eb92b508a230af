package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

func newService() (*Service, context.Context) {
	store := memory.NewStore()
	return NewService(store.Configs(), 30, logger.Nop()),
		tenant.WithOrganization(context.Background(), "org-1")
}

func TestService_GetDefaults(t *testing.T) {
	svc, ctx := newService()

	resp, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.ConfigResponse{
		OrganizationID:         "org-1",
		SlotGranularityMinutes: 30,
		IsDefault:              true,
	}, resp)
}

func TestService_UpdatePartial(t *testing.T) {
	svc, ctx := newService()

	resp, err := svc.Update(ctx, &models.UpdateConfigRequest{AutoConfirm: ptr.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, resp.AutoConfirm)
	assert.Equal(t, 30, resp.SlotGranularityMinutes, "untouched fields keep their values")
	assert.False(t, resp.IsDefault)

	resp, err = svc.Update(ctx, &models.UpdateConfigRequest{SlotGranularityMinutes: ptr.Ptr(15)})
	require.NoError(t, err)
	assert.True(t, resp.AutoConfirm)
	assert.Equal(t, 15, resp.SlotGranularityMinutes)

	effective, err := svc.Effective(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, effective.InitialStatus(nil))
}

func TestService_UpdateValidation(t *testing.T) {
	svc, ctx := newService()

	tests := []struct {
		name string
		req  *models.UpdateConfigRequest
	}{
		{"empty", &models.UpdateConfigRequest{}},
		{"granularity too small", &models.UpdateConfigRequest{SlotGranularityMinutes: ptr.Ptr(1)}},
		{"negative advance days", &models.UpdateConfigRequest{AdvanceBookingDays: ptr.Ptr(-1)}},
		{"notice too long", &models.UpdateConfigRequest{MinBookingNoticeMinutes: ptr.Ptr(domain.MaxBookingNoticeMinutes + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestService_Reset(t *testing.T) {
	svc, ctx := newService()

	_, err := svc.Update(ctx, &models.UpdateConfigRequest{AdvanceBookingDays: ptr.Ptr(14)})
	require.NoError(t, err)

	resp, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, 0, resp.AdvanceBookingDays)

	// повторный сброс без сохранённой политики не ошибка
	_, err = svc.Reset(ctx)
	assert.NoError(t, err)
}

func TestService_RequiresTenant(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
