package catalog

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrStorageUnavailable возвращается, когда каталог не удалось прочитать
	ErrStorageUnavailable = fmt.Errorf("catalog: storage unavailable: %w", domain.ErrUnavailable)
)
