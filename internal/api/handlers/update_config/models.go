package update_config

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/config/models"
)

// UpdateConfigRequest HTTP request model; границы дублируют проверку политики в домене
type UpdateConfigRequest struct {
	SlotGranularityMinutes  *int  `json:"slotGranularityMinutes,omitempty" validate:"omitempty,gte=5,lte=240"`
	AutoConfirm             *bool `json:"autoConfirm,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty" validate:"omitempty,gte=0,lte=365"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty" validate:"omitempty,gte=0,lte=10080"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest() *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		AutoConfirm:             r.AutoConfirm,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
