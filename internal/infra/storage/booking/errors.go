package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено в организации
	ErrBookingNotFound = fmt.Errorf("booking.repository: booking not found: %w", domain.ErrNotFound)

	// ErrSlotOccupied возвращается, когда exclusion constraint отклонил пересекающееся бронирование
	ErrSlotOccupied = fmt.Errorf("booking.repository: slot occupied: %w", domain.ErrSlotConflict)

	// ErrTenantRequired возвращается, если в контексте нет организации
	ErrTenantRequired = fmt.Errorf("booking.repository: organization is required: %w", domain.ErrInvalidRequest)

	// ErrNoTransaction возвращается, если блокировка запрошена вне транзакции
	ErrNoTransaction = errors.New("booking.repository: lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
