package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdateConfigRequest запрос на обновление политики записи
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	SlotGranularityMinutes  *int  `json:"slotGranularityMinutes,omitempty"`
	AutoConfirm             *bool `json:"autoConfirm,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`      // 0 = без ограничений
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"` // Минимальное время до начала записи
}

// IsEmpty возвращает true, если не передано ни одного поля
func (r *UpdateConfigRequest) IsEmpty() bool {
	return r.SlotGranularityMinutes == nil && r.AutoConfirm == nil &&
		r.AdvanceBookingDays == nil && r.MinBookingNoticeMinutes == nil
}

// ApplyToConfig применяет обновления к существующей политике
// Обновляются только непустые (not nil) поля из request
func (r *UpdateConfigRequest) ApplyToConfig(config *domain.SchedulingConfig) {
	if r.SlotGranularityMinutes != nil {
		config.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.AutoConfirm != nil {
		config.AutoConfirm = *r.AutoConfirm
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// Response модели

// ConfigResponse ответ с политикой записи организации
type ConfigResponse struct {
	OrganizationID          string     `json:"organizationId"`
	SlotGranularityMinutes  int        `json:"slotGranularityMinutes"`
	AutoConfirm             bool       `json:"autoConfirm"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"` // true, если у организации нет сохранённой политики
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SchedulingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		OrganizationID:          c.OrganizationID,
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		AutoConfirm:             c.AutoConfirm,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		IsDefault:               c.CreatedAt.IsZero(),
	}
	if !c.CreatedAt.IsZero() {
		createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
