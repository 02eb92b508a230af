package reset_config

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const route = "DELETE /config"

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

// Handle DELETE /api/v1/config
// Удаляет политику организации и возвращает значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	config, err := h.service.Reset(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, nil)
		return
	}

	h.logger.Info("%s - Config reset to defaults", route)
	handlers.RespondJSON(w, http.StatusOK, config)
}
