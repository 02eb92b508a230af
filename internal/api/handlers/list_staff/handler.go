package list_staff

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const route = "GET /staff"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff?active=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := handlers.ParseOptionalBool(r.URL.Query().Get("active"), false)
	if err != nil {
		handlers.RespondInvalidRequest(w, "active: "+err.Error())
		return
	}

	result, err := h.service.ListStaff(r.Context(), activeOnly)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, nil)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
