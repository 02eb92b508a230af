package update_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	updateBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model. Применяется только то, что передано.
type UpdateBookingRequest struct {
	Status             *string `json:"status,omitempty"`
	Date               *string `json:"date,omitempty" validate:"omitempty,date"`
	StartTime          *string `json:"startTime,omitempty" validate:"omitempty,hhmm"`
	StaffID            *string `json:"staffId,omitempty" validate:"omitempty,max=64"`
	ServiceID          *string `json:"serviceId,omitempty" validate:"omitempty,max=64"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID string) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID:          bookingID,
		Status:             r.Status,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
	}
	req.StaffID = r.StaffID
	req.ServiceID = r.ServiceID

	if r.Date != nil {
		date, err := handlers.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}
	if r.StartTime != nil {
		startTime, err := handlers.ParseTime(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	return req, nil
}
