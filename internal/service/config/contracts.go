package config

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ConfigRepository интерфейс репозитория политики записи
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.SchedulingConfig, error)
	Upsert(ctx context.Context, config *domain.SchedulingConfig) (*domain.SchedulingConfig, error)
	Delete(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
