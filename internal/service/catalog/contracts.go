package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogReader интерфейс чтения каталога (репозиторий или кеш поверх него)
type CatalogReader interface {
	ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error)
	ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
