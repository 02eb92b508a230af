package get_schedule

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует запрос и подставляет значения по умолчанию
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Days == 0 {
		req.Days = 1
	}
	if req.Days < 1 || req.Days > domain.MaxScheduleDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxScheduleDays)
	}

	for _, id := range req.StaffIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: staffId must not be empty", ErrInvalidInput)
		}
	}

	return nil
}
