package memory

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено в организации
	ErrBookingNotFound = fmt.Errorf("memory.storage: booking not found: %w", domain.ErrNotFound)

	// ErrStaffNotFound возвращается, когда сотрудник не найден в организации
	ErrStaffNotFound = fmt.Errorf("memory.storage: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в организации
	ErrServiceNotFound = fmt.Errorf("memory.storage: service not found: %w", domain.ErrNotFound)

	// ErrConfigNotFound возвращается, когда у организации нет сохранённой политики
	ErrConfigNotFound = fmt.Errorf("memory.storage: config not found: %w", domain.ErrNotFound)

	// ErrSlotOccupied возвращается, когда запись пересекается с активным бронированием сотрудника
	ErrSlotOccupied = fmt.Errorf("memory.storage: slot occupied: %w", domain.ErrSlotConflict)

	// ErrTenantRequired возвращается, если в контексте нет организации
	ErrTenantRequired = fmt.Errorf("memory.storage: organization is required: %w", domain.ErrInvalidRequest)

	// ErrLockTimeout возвращается, если блокировку не удалось взять до отмены контекста
	ErrLockTimeout = fmt.Errorf("memory.storage: lock wait aborted: %w", domain.ErrUnavailable)

	// ErrNoTransaction возвращается, если блокировка запрошена вне транзакции
	ErrNoTransaction = errors.New("memory.storage: lock requires a transaction")

	// ErrReadOnlyTransaction возвращается при записи внутри DoReadOnly
	ErrReadOnlyTransaction = errors.New("memory.storage: write in read-only transaction")
)
