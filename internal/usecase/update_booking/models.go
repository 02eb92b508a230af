package update_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

// Request модель запроса PUT /bookings/{id}; применяется только то, что передано и отличается
type Request struct {
	BookingID string

	// Перенос
	reschedule_booking.Changes

	Status             *string // Новый статус
	Notes              *string // Заметки; пустая строка очищает
	CancellationReason *string // Причина, если Status = cancelled
}

// IsEmpty возвращает true, если не передано ни одного поля
func (r *Request) IsEmpty() bool {
	return r.Changes.IsEmpty() && r.Status == nil && r.Notes == nil
}
