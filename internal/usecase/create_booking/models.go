package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID string           // ID клиента
	StaffID    string           // ID сотрудника
	ServiceID  string           // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
	Confirm    *bool            // Сразу подтвердить; nil = политика организации
}
