package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	configService "github.com/m04kA/SMC-AppointmentService/internal/service/config"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	getScheduleUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_schedule"
	rescheduleBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	updateBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// bookingRepository объединение контрактов всех потребителей репозитория бронирований
type bookingRepository interface {
	createBookingUC.BookingRepository
	rescheduleBookingUC.BookingRepository
	updateBookingUC.BookingRepository
	getAvailableSlotsUC.BookingRepository
	getScheduleUC.BookingRepository
	bookingsService.BookingRepository
}

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	bookings  bookingRepository
	catalog   cache.CatalogReader
	configs   configService.ConfigRepository
	txManager bookingsService.TransactionManager
	close     func() error
}

// openStorage подключает postgres или поднимает in-process хранилище
func openStorage(cfg *config.Config, metricsCollector *metrics.Metrics, log *logger.Logger, stopMetricsCh <-chan struct{}) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return openMemory(cfg, log)
	default:
		return openPostgres(cfg, metricsCollector, log, stopMetricsCh)
	}
}

func openPostgres(cfg *config.Config, metricsCollector *metrics.Metrics, log *logger.Logger, stopMetricsCh <-chan struct{}) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С метриками каждый запрос и пул соединений попадают в prometheus
	var wrappedDB *dbmetrics.DB
	if metricsCollector != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		bookings:  bookingRepo.NewRepository(wrappedDB),
		catalog:   catalogRepo.NewRepository(wrappedDB),
		configs:   configRepo.NewRepository(wrappedDB),
		txManager: txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Database.TxMaxRetries),
		close:     db.Close,
	}, nil
}

func openMemory(cfg *config.Config, log *logger.Logger) (*storage, error) {
	store := memory.NewStore()

	if cfg.Storage.SeedFile != "" {
		seed, err := memory.LoadSeedFile(cfg.Storage.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := store.ApplySeed(seed); err != nil {
			return nil, fmt.Errorf("failed to apply seed %s: %w", cfg.Storage.SeedFile, err)
		}
		log.Info("In-memory storage seeded from %s (%d organizations)", cfg.Storage.SeedFile, len(seed.Organizations))
	} else {
		log.Warn("In-memory storage started without seed: catalog is empty")
	}

	return &storage{
		bookings:  store.Bookings(),
		catalog:   store.Catalog(),
		configs:   store.Configs(),
		txManager: store.TxManager(),
		close:     func() error { return nil },
	}, nil
}
