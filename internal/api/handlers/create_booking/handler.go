package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingsModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	route = "POST /bookings"

	msgInvalidRequestBody = "invalid request body"
)

var messages = handlers.Messages{
	{Err: createBooking.ErrStaffNotFound, Text: "staff member not found"},
	{Err: createBooking.ErrServiceNotFound, Text: "service not found"},
	{Err: createBooking.ErrCustomerNotFound, Text: "customer not found"},
	{Err: createBooking.ErrSlotConflict, Text: "the selected time slot is already booked, pick another slot"},
	{Err: createBooking.ErrOutOfHours, Text: "the selected time is outside the staff member's working hours"},
	{Err: domain.ErrDateInPast, Text: "booking date is in the past"},
	{Err: domain.ErrDateTooFar, Text: "booking date is too far in the future"},
	{Err: domain.ErrTooLateToBook, Text: "too late to book this time"},
}

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondInvalidRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondInvalidRequest(w, err.Error())
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, messages)
		return
	}

	h.logger.Info("%s - Booking created: booking_id=%s, staff_id=%s, status=%s",
		route, booking.ID, booking.StaffID, booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, bookingsModels.FromDomainBooking(booking))
}
