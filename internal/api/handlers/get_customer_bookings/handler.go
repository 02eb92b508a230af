package get_customer_bookings

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const route = "GET /customers/{id}/bookings"

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

// Handle GET /api/v1/customers/{customerId}/bookings?status=
// История клиента, новые сверху
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]
	status := handlers.OptionalString(r.URL.Query().Get("status"))

	result, err := h.service.CustomerBookings(r.Context(), customerID, status)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, nil)
		return
	}

	h.logger.Info("%s - Bookings retrieved: customer_id=%s, count=%d", route, customerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
