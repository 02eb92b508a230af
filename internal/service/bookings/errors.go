package bookings

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking not found: %w", domain.ErrNotFound)

	// ErrInvalidTransition возвращается, когда статус недостижим из текущего
	ErrInvalidTransition = fmt.Errorf("bookings: invalid status transition: %w", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("bookings: storage unavailable: %w", domain.ErrUnavailable)
)
