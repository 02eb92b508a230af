package config

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrConfigNotFound возвращается, когда у организации нет сохранённой политики
	ErrConfigNotFound = fmt.Errorf("config.repository: config not found: %w", domain.ErrNotFound)

	// ErrTenantRequired возвращается, если в контексте нет организации
	ErrTenantRequired = fmt.Errorf("config.repository: organization is required: %w", domain.ErrInvalidRequest)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("config.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("config.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("config.repository: failed to scan row")
)
