package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api"
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
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	customerServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	configService "github.com/m04kA/SMC-AppointmentService/internal/service/config"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	getScheduleUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_schedule"
	rescheduleBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	updateBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("APPOINTMENTS_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s (storage=%s, notifications=%s)",
		configPath, cfg.Storage.Driver, cfg.Notifications.Driver)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	store, err := openStorage(cfg, metricsCollector, log, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Каталог меняется редко: читаем через кеш
	catalog := store.catalog
	if cfg.CatalogCache.Enabled {
		catalog = cache.NewCatalog(
			store.catalog,
			time.Duration(cfg.CatalogCache.TTL)*time.Second,
			time.Duration(cfg.CatalogCache.CleanupInterval)*time.Second,
		)
		log.Info("Catalog cache enabled (ttl=%ds)", cfg.CatalogCache.TTL)
	}

	// Инициализируем интеграционных клиентов
	var customerClient createBookingUC.CustomerServiceClient
	if cfg.CustomerService.URL != "" {
		customerClient = customerServiceClient.NewClient(
			cfg.CustomerService.URL,
			time.Duration(cfg.CustomerService.Timeout)*time.Second,
			log,
		)
		log.Info("Customer directory client initialized (url=%s timeout=%ds)",
			cfg.CustomerService.URL, cfg.CustomerService.Timeout)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	eventNotifier, err := notifier.NewFromConfig(startupCtx, cfg.Notifications, log, metricsCollector)
	cancelStartup()
	if err != nil {
		log.Fatal("Failed to initialize notifier: %v", err)
	}

	// Инициализируем сервисы
	configSvc := configService.NewService(store.configs, cfg.Scheduling.SlotGranularityMinutes, log)
	catalogSvc := catalogService.NewService(catalog, log)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.txManager,
		eventNotifier,
		metricsCollector,
		nil,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		catalog,
		configSvc,
		customerClient,
		store.txManager,
		eventNotifier,
		metricsCollector,
		nil,
		location,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		store.bookings,
		catalog,
		configSvc,
		store.txManager,
		eventNotifier,
		metricsCollector,
		nil,
		location,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		store.bookings,
		rescheduleBookingUseCase,
		bookingSvc,
		store.txManager,
		metricsCollector,
		nil,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.bookings,
		catalog,
		configSvc,
		nil,
		location,
		log,
	)
	getScheduleUseCase := getScheduleUC.NewUseCase(
		store.bookings,
		catalog,
		configSvc,
		store.txManager,
		log,
	)

	// Инициализируем handlers
	handlers := api.Handlers{
		ListBookings:        listBookingsHandler.NewHandler(bookingSvc, log),
		CreateBooking:       createBookingHandler.NewHandler(createBookingUseCase, log),
		GetBooking:          getBookingHandler.NewHandler(bookingSvc, log),
		UpdateBooking:       updateBookingHandler.NewHandler(updateBookingUseCase, log),
		CancelBooking:       cancelBookingHandler.NewHandler(bookingSvc, log),
		GetAvailableSlots:   getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log),
		GetSchedule:         getScheduleHandler.NewHandler(getScheduleUseCase, log),
		GetCustomerBookings: getCustomerBookingsHandler.NewHandler(bookingSvc, log),
		ListStaff:           listStaffHandler.NewHandler(catalogSvc, log),
		ListServices:        listServicesHandler.NewHandler(catalogSvc, log),
		GetConfig:           getConfigHandler.NewHandler(configSvc, log),
		UpdateConfig:        updateConfigHandler.NewHandler(configSvc, log),
		ResetConfig:         resetConfigHandler.NewHandler(configSvc, log),
	}

	// Настраиваем роутер
	opts := api.Options{
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Logger:         log,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
		log.Info("HTTP metrics middleware enabled, endpoint exposed at %s", cfg.Metrics.Path)
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		}, 10*time.Minute)
		log.Info("Rate limit enabled (%.1f rps, burst %d per organization)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	r := api.NewRouter(handlers, opts)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки событий, принятых до остановки
	if err := eventNotifier.Close(); err != nil {
		log.Error("Failed to close notifier: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
