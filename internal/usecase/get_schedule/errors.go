package get_schedule

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда запрошенный сотрудник не найден
	ErrStaffNotFound = fmt.Errorf("get_schedule: staff not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_schedule: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("get_schedule: storage unavailable: %w", domain.ErrUnavailable)
)
