package cancel_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	route = "DELETE /bookings/{id}"

	msgInvalidRequestBody = "invalid request body"
)

var messages = handlers.Messages{
	{Err: bookings.ErrBookingNotFound, Text: "booking not found"},
	{Err: bookings.ErrInvalidTransition, Text: "a completed booking cannot be cancelled"},
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
// Отмена - смена статуса, запись не удаляется. Повторная отмена успешна.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req CancelBookingRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondInvalidRequest(w, err.Error())
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, req.Reason)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, messages)
		return
	}

	h.logger.Info("%s - Booking cancelled: booking_id=%s", route, bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
