package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден в организации
	ErrStaffNotFound = fmt.Errorf("catalog.repository: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в организации
	ErrServiceNotFound = fmt.Errorf("catalog.repository: service not found: %w", domain.ErrNotFound)

	// ErrTenantRequired возвращается, если в контексте нет организации
	ErrTenantRequired = fmt.Errorf("catalog.repository: organization is required: %w", domain.ErrInvalidRequest)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
