package get_schedule

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_schedule"
)

const (
	route = "GET /schedule"

	msgDateRequired = "date query parameter is required"
	msgInvalidDays  = "days must be a number between 1 and 31"
)

var messages = handlers.Messages{
	{Err: getSchedule.ErrStaffNotFound, Text: "staff member not found"},
}

type Handler struct {
	useCase GetScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule?date=YYYY-MM-DD&days=7&staffId=a&staffId=b
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
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

	req := &getSchedule.Request{Date: date, StaffIDs: query["staffId"]}
	if days := query.Get("days"); days != "" {
		if req.Days, err = strconv.Atoi(days); err != nil || req.Days < 1 {
			handlers.RespondInvalidRequest(w, msgInvalidDays)
			return
		}
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
