package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = fmt.Errorf("get_available_slots: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("get_available_slots: storage unavailable: %w", domain.ErrUnavailable)
)
