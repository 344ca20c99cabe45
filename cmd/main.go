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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockRangeHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/block_range"
	cancelBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_booking"
	getFullDatesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_full_dates"
	getScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_schedule"
	listBlockedRangesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/list_blocked_ranges"
	unblockRangeHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/unblock_range"
	updateScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	fullDatesCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/fulldates"
	blockedRangeRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/blockedrange"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	catalogServiceClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	blockedRangesService "github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges"
	bookingsService "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	getFullDatesUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_full_dates"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

const rateLimiterIdleTTL = 10 * time.Minute

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
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

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Redis для кэша заполненных дней; недоступность не мешает старту
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis is unavailable at %s, full dates will be computed without cache: %v", cfg.Redis.Addr, err)
	} else {
		log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)
	}
	pingCancel()

	datesCache := fullDatesCache.New(rdb, cfg.Engine.FullDatesCacheTTL())

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Репозитории и менеджер транзакций
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	blockedRangeRepository := blockedRangeRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, datesCache, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, log)
	blockedRangesSvc := blockedRangesService.NewService(blockedRangeRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		blockedRangeRepository,
		catalogClient,
		txMgr,
		datesCache,
		metricsCollector,
		cfg.Engine.CommitTimeout(),
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		blockedRangeRepository,
		catalogClient,
		txMgr,
		log,
	)

	getFullDatesUseCase := getFullDatesUC.NewUseCase(
		bookingRepository,
		datesCache,
		txMgr,
		metricsCollector,
		cfg.Engine.DayCapacityCeiling,
		cfg.Engine.MaxRangeDays,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getFullDates := getFullDatesHandler.NewHandler(getFullDatesUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	blockRange := blockRangeHandler.NewHandler(blockedRangesSvc, log)
	unblockRange := unblockRangeHandler.NewHandler(blockedRangesSvc, log)
	listBlockedRanges := listBlockedRangesHandler.NewHandler(blockedRangesSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1/tenants/{tenantId}").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimiterIdleTTL)
		go limiter.Run(stopCh)
		api.Use(limiter.Limit)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Доступность ---
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/full-dates", getFullDates.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Закрытые интервалы ---
	api.HandleFunc("/blocked-ranges", blockRange.Handle).Methods(http.MethodPost)
	api.HandleFunc("/blocked-ranges", listBlockedRanges.Handle).Methods(http.MethodGet)
	api.HandleFunc("/blocked-ranges/{rangeId}", unblockRange.Handle).Methods(http.MethodDelete)

	// --- Расписание ---
	api.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule", updateSchedule.Handle).Methods(http.MethodPut)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи: статистику пула и очистку лимитера
	close(stopCh)

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
