package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StaffID   string    // ID сотрудника
	ServiceID string    // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date               time.Time              // Дата, на которую запрашивались слоты
	StaffID            string                 // ID сотрудника
	ServiceID          string                 // ID услуги
	DurationMinutes    int                    // Длительность услуги
	GranularityMinutes int                    // Шаг сетки слотов
	Slots              []domain.AvailableSlot // Свободные начала по возрастанию
}
