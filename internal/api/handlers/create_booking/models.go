package create_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID string  `json:"customerId" validate:"required,max=64"`
	StaffID    string  `json:"staffId" validate:"required,max=64"`
	ServiceID  string  `json:"serviceId" validate:"required,max=64"`
	Date       string  `json:"date" validate:"required,date"`      // "2026-03-02"
	StartTime  string  `json:"startTime" validate:"required,hhmm"` // "09:00"
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Confirm    *bool   `json:"confirm,omitempty"` // nil - решает autoConfirm организации
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID: r.CustomerID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
		Confirm:    r.Confirm,
	}, nil
}
