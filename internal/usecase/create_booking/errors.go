package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = fmt.Errorf("create_booking: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("create_booking: service not found: %w", domain.ErrNotFound)

	// ErrCustomerNotFound возвращается, когда справочник клиентов не знает клиента
	ErrCustomerNotFound = fmt.Errorf("create_booking: customer not found: %w", domain.ErrNotFound)

	// ErrOutOfHours возвращается, когда интервал не помещается в рабочие часы сотрудника
	ErrOutOfHours = fmt.Errorf("create_booking: outside working hours: %w", domain.ErrOutOfHours)

	// ErrSlotConflict возвращается, когда интервал пересекается с активным бронированием сотрудника
	ErrSlotConflict = fmt.Errorf("create_booking: slot is already taken: %w", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("create_booking: storage unavailable: %w", domain.ErrUnavailable)
)
