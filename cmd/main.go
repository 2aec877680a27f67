package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"

	cancelBookingHandler "github.com/m04kA/SMC-DetailingBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-DetailingBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-DetailingBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-DetailingBooking/internal/api/handlers/get_booking"
	getCatalogHandler "github.com/m04kA/SMC-DetailingBooking/internal/api/handlers/get_catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/config"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DetailingBooking/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-DetailingBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-DetailingBooking/internal/service/catalog"
	createBookingUC "github.com/m04kA/SMC-DetailingBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-DetailingBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-DetailingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingBooking/pkg/logger"
	"github.com/m04kA/SMC-DetailingBooking/pkg/metrics"
	"github.com/m04kA/SMC-DetailingBooking/pkg/money"
	"github.com/m04kA/SMC-DetailingBooking/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

// bookingStore хранилище бронирований, общее для use cases и сервиса
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	LockDay(ctx context.Context, day string) error
	Cancel(ctx context.Context, id uuid.UUID, reason *string, cancelledAt time.Time) error
}

// txManager сериализующие транзакции для проверки и фиксации бронирования
type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// bookingNotifier получатель событий о бронированиях
type bookingNotifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking) error
	BookingCancelled(ctx context.Context, booking *domain.Booking) error
}

func main() {
	configPath := os.Getenv("DETAILING_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Загружаем конфигурацию
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

	log.Info("Starting SMC-DetailingBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Правила календаря фиксируются на старте, каталог можно перечитать по SIGHUP
	policy, err := cfg.Policy()
	if err != nil {
		log.Fatal("Invalid calendar policy: %v", err)
	}
	initialCatalog, err := cfg.BuildCatalog()
	if err != nil {
		log.Fatal("Invalid catalog: %v", err)
	}
	catalogHolder := catalog.NewHolder(initialCatalog)
	log.Info("Calendar policy loaded (timezone=%s, granularity=%s, buffer=%s, lead=%s, advance_days=%d)",
		policy.Location, policy.SlotGranularity, policy.Buffer, policy.MinLeadTime, policy.AdvanceBookingDays)

	prices, err := money.NewFormatter(cfg.Catalog.Currency, cfg.Catalog.Language)
	if err != nil {
		log.Fatal("Invalid currency settings: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		store bookingStore
		txMgr txManager
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		memStore := memory.NewStore()
		store, txMgr = memStore, memStore
		log.Warn("Using in-memory booking store, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		store = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Инициализируем публикацию уведомлений
	var notify bookingNotifier = notifier.Nop{}

	if cfg.Notifications.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Notifications.RedisAddr,
			Password: cfg.Notifications.RedisPassword,
			DB:       cfg.Notifications.RedisDB,
		}
		queueClient := asynq.NewClient(redisOpt)
		defer queueClient.Close()
		inspector := asynq.NewInspector(redisOpt)
		defer inspector.Close()

		notify = notifier.NewPublisher(queueClient, inspector, notifier.Options{
			Queue:          cfg.Notifications.Queue,
			MaxRetry:       cfg.Notifications.MaxRetry,
			ReminderBefore: cfg.Notifications.ReminderBefore(),
			TimeZone:       cfg.Calendar.TimeZone,
		}, log)
		log.Info("Notifications enabled (redis=%s, queue=%s)", cfg.Notifications.RedisAddr, cfg.Notifications.Queue)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(store, txMgr, notify, prices, policy.Location, log)
	catalogSvc := catalogService.NewService(catalogHolder, func() (*catalog.Catalog, error) {
		fresh, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return fresh.BuildCatalog()
	}, policy, prices, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store,
		catalogHolder,
		policy,
		txMgr,
		notify,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store,
		catalogHolder,
		policy,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCatalog := getCatalogHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// Каталог услуг и свободные слоты
	api.HandleFunc("/catalog", getCatalog.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

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

	// Ожидаем сигнал завершения, SIGHUP перечитывает каталог
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		log.Info("Received SIGHUP, reloading catalog from %s", configPath)
		if err := catalogSvc.Reload(); err != nil {
			log.Error("Catalog reload failed, keeping current version: %v", err)
		}
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
