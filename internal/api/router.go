package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_config"
	getCustomerBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_customer_bookings"
	getScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule"
	listBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_bookings"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	listStaffHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_staff"
	resetConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reset_config"
	updateBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking"
	updateConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

// Handlers все обработчики API
type Handlers struct {
	ListBookings        *listBookingsHandler.Handler
	CreateBooking       *createBookingHandler.Handler
	GetBooking          *getBookingHandler.Handler
	UpdateBooking       *updateBookingHandler.Handler
	CancelBooking       *cancelBookingHandler.Handler
	GetAvailableSlots   *getAvailableSlotsHandler.Handler
	GetSchedule         *getScheduleHandler.Handler
	GetCustomerBookings *getCustomerBookingsHandler.Handler
	ListStaff           *listStaffHandler.Handler
	ListServices        *listServicesHandler.Handler
	GetConfig           *getConfigHandler.Handler
	UpdateConfig        *updateConfigHandler.Handler
	ResetConfig         *resetConfigHandler.Handler
}

// Options сквозные настройки роутера; нулевые значения отключают соответствующий слой
type Options struct {
	Metrics        middleware.HTTPMetrics // nil - без метрик
	MetricsPath    string
	RateLimiter    *middleware.RateLimiter // nil - без ограничения
	RequestTimeout time.Duration
	Logger         middleware.Logger
}

// NewRouter собирает маршруты /api/v1, /health и /metrics
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondNotFound(w, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondError(w, http.StatusMethodNotAllowed, handlers.CodeBadRequest, "method not allowed")
	})

	if opts.Logger != nil {
		r.Use(middleware.Logging(opts.Logger))
	}

	// Добавляем metrics middleware (если метрики включены)
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		if opts.MetricsPath != "" {
			r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
		}
	}

	// Health check (без заголовка организации)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// TENANT ROUTES (требуют X-Organization-ID header)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant)
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}
	api.Use(middleware.Timeout(opts.RequestTimeout))

	// --- Бронирования ---
	api.HandleFunc("/bookings", h.ListBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", h.GetBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", h.UpdateBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId}", h.CancelBooking.Handle).Methods(http.MethodDelete)

	// История бронирований клиента
	api.HandleFunc("/customers/{customerId}/bookings", h.GetCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Слоты и расписание ---
	api.HandleFunc("/staff/{staffId}/slots", h.GetAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule", h.GetSchedule.Handle).Methods(http.MethodGet)

	// --- Каталог ---
	api.HandleFunc("/staff", h.ListStaff.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", h.ListServices.Handle).Methods(http.MethodGet)

	// --- Политика записи организации ---
	api.HandleFunc("/config", h.GetConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/config", h.UpdateConfig.Handle).Methods(http.MethodPut)
	api.HandleFunc("/config", h.ResetConfig.Handle).Methods(http.MethodDelete)

	return r
}
