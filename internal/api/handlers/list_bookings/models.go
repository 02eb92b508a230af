package list_bookings

import (
	"fmt"
	"net/url"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// parseQuery разбирает фильтры GET /bookings.
// date - краткая запись для startDate = endDate; includeInactive=false оставляет только pending/confirmed.
func parseQuery(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		StaffID:    handlers.OptionalString(query.Get("staffId")),
		CustomerID: handlers.OptionalString(query.Get("customerId")),
		Status:     handlers.OptionalString(query.Get("status")),
	}

	if date := query.Get("date"); date != "" {
		if query.Get("startDate") != "" || query.Get("endDate") != "" {
			return nil, fmt.Errorf("date cannot be combined with startDate or endDate")
		}
		d, err := handlers.ParseDate(date)
		if err != nil {
			return nil, err
		}
		req.StartDate, req.EndDate = &d, &d
	} else {
		var err error
		if req.StartDate, err = handlers.ParseOptionalDate(query.Get("startDate")); err != nil {
			return nil, err
		}
		if req.EndDate, err = handlers.ParseOptionalDate(query.Get("endDate")); err != nil {
			return nil, err
		}
	}

	includeInactive, err := handlers.ParseOptionalBool(query.Get("includeInactive"), true)
	if err != nil {
		return nil, fmt.Errorf("includeInactive: %w", err)
	}
	req.ActiveOnly = !includeInactive

	return req, nil
}
