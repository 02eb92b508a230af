package config

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("config: invalid input data: %w", domain.ErrInvalidRequest)

	// ErrStorageUnavailable возвращается, когда хранилище не смогло выполнить операцию
	ErrStorageUnavailable = fmt.Errorf("config: storage unavailable: %w", domain.ErrUnavailable)
)
