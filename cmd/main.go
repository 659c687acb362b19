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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/get_availability"
	getBookableSlotsHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/get_bookable_slots"
	getBookingHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/get_booking"
	getDesignerBookingsHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/get_designer_bookings"
	getUserBookingsHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/get_user_bookings"
	respondBookingHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/respond_booking"
	updateAvailabilityHandler "github.com/m04kA/DMP-BookingService/internal/api/handlers/update_availability"
	"github.com/m04kA/DMP-BookingService/internal/api/middleware"
	"github.com/m04kA/DMP-BookingService/internal/config"
	availabilityRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/booking"
	notifyGatewayClient "github.com/m04kA/DMP-BookingService/internal/integrations/notifygateway"
	userDirectoryClient "github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
	availabilityService "github.com/m04kA/DMP-BookingService/internal/service/availability"
	bookingsService "github.com/m04kA/DMP-BookingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/DMP-BookingService/internal/usecase/create_booking"
	getBookableSlotsUC "github.com/m04kA/DMP-BookingService/internal/usecase/get_bookable_slots"
	"github.com/m04kA/DMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DMP-BookingService/pkg/logger"
	"github.com/m04kA/DMP-BookingService/pkg/metrics"
	"github.com/m04kA/DMP-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/DMP-BookingService/pkg/txmanager"
)

// realTimeProvider провайдер системного времени для сервисов
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting DMP-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Каноническая таймзона, в которой интерпретируются расписания дизайнеров
	location, err := time.LoadLocation(cfg.Booking.CanonicalZone)
	if err != nil {
		log.Fatal("Failed to load canonical zone %q: %v", cfg.Booking.CanonicalZone, err)
	}
	log.Info("Canonical zone: %s, default slot: %d minutes", location, cfg.Booking.DefaultSlotMinutes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	// Инициализируем интеграционных клиентов
	userClient := userDirectoryClient.NewClient(
		cfg.UserDirectory.URL,
		time.Duration(cfg.UserDirectory.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyGatewayClient.NewClient(
		cfg.NotifyGateway.URL,
		time.Duration(cfg.NotifyGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserDirectory=%s timeout=%ds, NotifyGateway=%s timeout=%ds)",
		cfg.UserDirectory.URL, cfg.UserDirectory.Timeout, cfg.NotifyGateway.URL, cfg.NotifyGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
	)

	// Интерфейс transaction manager, общий для usecase и сервисов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &realTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		notifyClient,
		txMgr,
		timeProvider,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		userClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		userClient,
		notifyClient,
		txMgr,
		log,
	)

	getBookableSlotsUseCase := getBookableSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		userClient,
		location,
		cfg.Booking.DefaultSlotMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBookableSlots := getBookableSlotsHandler.NewHandler(getBookableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	respondBooking := respondBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getDesignerBookings := getDesignerBookingsHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты дизайнера за период
	api.HandleFunc("/designers/{designerId}/slots",
		getBookableSlots.Handle).Methods(http.MethodGet)

	// Доступность дизайнера (расписание и blackout-даты)
	api.HandleFunc("/designers/{designerId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Ответ дизайнера (approve/decline)
	protected.HandleFunc("/bookings/{bookingId}/respond", respondBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований создателя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет дизайнера ---
	// Календарь бронирований дизайнера
	protected.HandleFunc("/designers/{designerId}/bookings", getDesignerBookings.Handle).Methods(http.MethodGet)

	// Обновление доступности
	protected.HandleFunc("/designers/{designerId}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// Фоновая очистка просроченных pending-бронирований
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		interval := time.Duration(cfg.Booking.ExpireSweepInterval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Expire sweep started, interval=%s", interval)
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				result, err := bookingSvc.ExpireStale(sweepCtx, timeProvider.Now())
				if err != nil {
					log.Error("Expire sweep failed: %v", err)
					continue
				}
				if result.ExpiredCount > 0 {
					log.Info("Expire sweep: %d bookings expired", result.ExpiredCount)
				}
			}
		}
	}()

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

	// Останавливаем фоновую очистку
	stopSweep()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
