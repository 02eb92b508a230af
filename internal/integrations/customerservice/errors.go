package customerservice

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrCustomerNotFound возвращается, когда справочник клиентов не знает такого клиента
	ErrCustomerNotFound = fmt.Errorf("customerservice client: customer not found: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("customerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("customerservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Бронирование создаётся без снимка имени клиента.
	ErrServiceDegraded = errors.New("customerservice unavailable: graceful degradation applied")
)
