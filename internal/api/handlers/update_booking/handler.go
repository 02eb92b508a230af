package update_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	bookingsModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	updateBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
)

const (
	route = "PUT /bookings/{id}"

	msgInvalidRequestBody = "invalid request body"
)

var messages = handlers.Messages{
	{Err: updateBooking.ErrBookingNotFound, Text: "booking not found"},
	{Err: rescheduleBooking.ErrBookingNotFound, Text: "booking not found"},
	{Err: rescheduleBooking.ErrStaffNotFound, Text: "staff member not found"},
	{Err: rescheduleBooking.ErrServiceNotFound, Text: "service not found"},
	{Err: rescheduleBooking.ErrNotReschedulable, Text: "only pending or confirmed bookings can be rescheduled"},
	{Err: rescheduleBooking.ErrSlotConflict, Text: "the selected time slot is already booked, pick another slot"},
	{Err: rescheduleBooking.ErrOutOfHours, Text: "the selected time is outside the staff member's working hours"},
	{Err: bookingsService.ErrInvalidTransition, Text: "the booking cannot move to the requested status"},
	{Err: updateBooking.ErrInvalidInput, Text: "invalid booking update"},
	{Err: domain.ErrDateInPast, Text: "booking date is in the past"},
	{Err: domain.ErrDateTooFar, Text: "booking date is too far in the future"},
	{Err: domain.ErrTooLateToBook, Text: "too late to book this time"},
}

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
// Перенос, заметки и статус применяются в одной транзакции.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req UpdateBookingRequest
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

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		handlers.RespondInvalidRequest(w, err.Error())
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, messages)
		return
	}

	h.logger.Info("%s - Booking updated: booking_id=%s, status=%s", route, booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, bookingsModels.FromDomainBooking(booking))
}
