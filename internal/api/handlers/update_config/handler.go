package update_config

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	route = "PUT /config"

	msgInvalidRequestBody = "invalid request body"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/config
// Частичное обновление: меняются только переданные поля
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
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

	config, err := h.service.Update(r.Context(), req.ToServiceRequest())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, nil)
		return
	}

	h.logger.Info("%s - Config updated: organization_id=%s", route, config.OrganizationID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
