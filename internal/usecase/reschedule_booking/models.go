package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Changes новые значения; nil поле остаётся без изменений
type Changes struct {
	StaffID   *string           // Новый сотрудник
	ServiceID *string           // Новая услуга (пересчитывает длительность и стоимость)
	Date      *time.Time        // Новая дата
	StartTime *types.TimeString // Новое время начала
}

// IsEmpty возвращает true, если не передано ни одного поля
func (c Changes) IsEmpty() bool {
	return c.StaffID == nil && c.ServiceID == nil && c.Date == nil && c.StartTime == nil
}

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID string
	Changes
}
