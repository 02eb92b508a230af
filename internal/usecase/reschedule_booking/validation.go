package reschedule_booking

import (
	"fmt"
	"strings"
)

// validateChanges валидирует формат переданных полей
func validateChanges(c Changes) error {
	if c.StaffID != nil && strings.TrimSpace(*c.StaffID) == "" {
		return fmt.Errorf("%w: staffId must not be empty", ErrInvalidInput)
	}

	if c.ServiceID != nil && strings.TrimSpace(*c.ServiceID) == "" {
		return fmt.Errorf("%w: serviceId must not be empty", ErrInvalidInput)
	}

	if c.Date != nil && c.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if c.StartTime != nil {
		if err := c.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	}

	return nil
}
