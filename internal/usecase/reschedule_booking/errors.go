package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("reschedule_booking: booking not found: %w", domain.ErrNotFound)

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = fmt.Errorf("reschedule_booking: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("reschedule_booking: service not found: %w", domain.ErrNotFound)

	// ErrNotReschedulable возвращается для завершённых и отменённых бронирований
	ErrNotReschedulable = fmt.Errorf("reschedule_booking: booking can no longer be rescheduled: %w", domain.ErrInvalidTransition)

	// ErrOutOfHours возвращается, когда новый интервал не помещается в рабочие часы
	ErrOutOfHours = fmt.Errorf("reschedule_booking: outside working hours: %w", domain.ErrOutOfHours)

	// ErrSlotConflict возвращается, когда новый интервал пересекается с активным бронированием
	ErrSlotConflict = fmt.Errorf("reschedule_booking: slot is already taken: %w", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reschedule_booking: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("reschedule_booking: storage unavailable: %w", domain.ErrUnavailable)
)
