package get_available_slots

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	route = "GET /staff/{id}/slots"

	msgDateRequired      = "date query parameter is required"
	msgServiceIDRequired = "serviceId query parameter is required"
)

var messages = handlers.Messages{
	{Err: getAvailableSlots.ErrStaffNotFound, Text: "staff member not found"},
	{Err: getAvailableSlots.ErrServiceNotFound, Text: "service not found"},
	{Err: domain.ErrDateInPast, Text: "date is in the past"},
	{Err: domain.ErrDateTooFar, Text: "date is too far in the future"},
}

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/slots?date=YYYY-MM-DD&serviceId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]
	query := r.URL.Query()

	if query.Get("date") == "" {
		handlers.RespondInvalidRequest(w, msgDateRequired)
		return
	}
	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		handlers.RespondInvalidRequest(w, err.Error())
		return
	}
	serviceID := query.Get("serviceId")
	if serviceID == "" {
		handlers.RespondInvalidRequest(w, msgServiceIDRequired)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
