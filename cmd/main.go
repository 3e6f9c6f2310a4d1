package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	consultantsHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/consultants"
	createBookingHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/create_booking"
	dayOverrideHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/day_override"
	getActiveBookingHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/get_active_booking"
	getBookingHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/get_booking"
	getSlotsHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/get_slots"
	getUserBookingsHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/list_bookings"
	problemTypesHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/problem_types"
	slotOverridesHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/slot_overrides"
	updateBookingHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/update_booking"
	userProfileHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/user_profile"
	workingHoursHandler "github.com/m04kA/counseling-booking-service/internal/api/handlers/working_hours"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/config"
	slotCache "github.com/m04kA/counseling-booking-service/internal/infra/cache/slots"
	"github.com/m04kA/counseling-booking-service/internal/infra/events"
	"github.com/m04kA/counseling-booking-service/internal/integrations/line"
	bookingsService "github.com/m04kA/counseling-booking-service/internal/service/bookings"
	consultantsService "github.com/m04kA/counseling-booking-service/internal/service/consultants"
	"github.com/m04kA/counseling-booking-service/internal/service/notifications"
	scheduleService "github.com/m04kA/counseling-booking-service/internal/service/schedule"
	slotsService "github.com/m04kA/counseling-booking-service/internal/service/slots"
	usersService "github.com/m04kA/counseling-booking-service/internal/service/users"
	createBookingUC "github.com/m04kA/counseling-booking-service/internal/usecase/create_booking"
	getSlotsUC "github.com/m04kA/counseling-booking-service/internal/usecase/get_slots"
	updateBookingUC "github.com/m04kA/counseling-booking-service/internal/usecase/update_booking"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/metrics"
)

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

	log.Info("Starting counseling-booking-service...")
	log.Info("Configuration loaded from %s", configPath)

	window, err := cfg.Booking.Window()
	if err != nil {
		log.Fatal("Invalid booking window: %v", err)
	}
	defaults := cfg.Booking.ScheduleDefaults()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	ds, err := openDatasource(startupCtx, cfg, metricsCollector, stopMetricsCh, log)
	cancelStartup()
	if err != nil {
		log.Fatal("Failed to open datasource %q: %v", cfg.Datasource.Kind, err)
	}
	defer ds.close()

	readiness := map[string]healthHandler.Pinger{"datasource": ds.ping}

	// Генератор слотов, кэш материализации в Redis (если включен)
	generator := slotsService.NewGenerator(
		ds.workingHours,
		ds.dayOverrides,
		ds.slotOverrides,
		ds.bookings,
		defaults,
		log,
	)
	if cfg.Metrics.Enabled {
		generator = generator.WithMetrics(metricsCollector)
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		cache := slotCache.New(redisClient, cfg.Redis.SlotsTTL())
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.Warn("Redis is unavailable at %s, slots will be computed on every request until it recovers: %v",
				cfg.Redis.Addr, err)
		}
		cancelPing()

		generator = generator.WithCache(cache)
		readiness["redis"] = cache
		log.Info("Slot cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.SlotsTTL())
	}

	// Каналы уведомлений
	var lineSender notifications.LineSender
	if cfg.Line.Enabled {
		lineSender = line.NewClient(
			cfg.Line.BaseURL,
			cfg.Line.ChannelAccessToken,
			time.Duration(cfg.Line.Timeout)*time.Second,
			cfg.Line.RatePerSecond,
			cfg.Line.Burst,
			log,
		)
		log.Info("LINE notifications enabled (base_url=%s)", cfg.Line.BaseURL)
	}

	var eventPublisher notifications.EventPublisher
	if cfg.Kafka.Enabled {
		publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Failed to close event publisher: %v", err)
			}
		}()
		eventPublisher = publisher
		log.Info("Booking events enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	dispatcher := notifications.NewDispatcher(
		lineSender,
		eventPublisher,
		time.Duration(cfg.Line.Timeout)*time.Second,
		log,
	)
	if cfg.Metrics.Enabled {
		dispatcher = dispatcher.WithMetrics(metricsCollector)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(ds.bookings, ds.users, log)
	scheduleSvc := scheduleService.NewService(
		ds.workingHours,
		ds.dayOverrides,
		ds.slotOverrides,
		generator,
		ds.tx,
		defaults,
		log,
	)
	consultantSvc := consultantsService.NewService(ds.consultants, log)
	userSvc := usersService.NewService(ds.users, log)

	// Инициализируем use cases
	getSlotsUseCase := getSlotsUC.NewUseCase(generator, window, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		ds.bookings,
		ds.users,
		generator,
		ds.tx,
		dispatcher,
		window,
		log,
	)

	updateBookingUseCase := updateBookingUC.NewUseCase(
		ds.bookings,
		ds.consultants,
		generator,
		ds.tx,
		dispatcher,
		window,
		log,
	)

	if cfg.Metrics.Enabled {
		createBookingUseCase = createBookingUseCase.WithMetrics(metricsCollector)
		updateBookingUseCase = updateBookingUseCase.WithMetrics(metricsCollector)
	}

	// Инициализируем handlers
	getSlots := getSlotsHandler.NewHandler(getSlotsUseCase, log)
	problemTypes := problemTypesHandler.NewHandler()
	consultants := consultantsHandler.NewHandler(consultantSvc, log)
	userProfile := userProfileHandler.NewHandler(userSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getActiveBooking := getActiveBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	workingHours := workingHoursHandler.NewHandler(scheduleSvc, log)
	dayOverride := dayOverrideHandler.NewHandler(scheduleSvc, log)
	slotOverrides := slotOverridesHandler.NewHandler(scheduleSvc, log)
	health := healthHandler.NewHandler(readiness, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.HandleLive).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.HandleReady).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/slots", getSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/problem-types", problemTypes.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants", consultants.HandleList).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Key header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.APIKey))
	if cfg.Admin.APIKey == "" {
		log.Warn("admin.api_key is empty: staff routes reject every request")
	}

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", updateBooking.HandleAdmin).Methods(http.MethodPatch)

	// --- Расписание ---
	admin.HandleFunc("/schedule/working-hours", workingHours.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/schedule/working-hours", workingHours.HandlePut).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/days/{date}/override", dayOverride.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/schedule/days/{date}/override", dayOverride.HandlePut).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/days/{date}/override", dayOverride.HandleDelete).Methods(http.MethodDelete)
	admin.HandleFunc("/schedule/days/{date}/status", dayOverride.HandleSetStatus).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/days/{date}/slot-overrides", slotOverrides.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/schedule/days/{date}/slot-overrides", slotOverrides.HandleReplace).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/slot-overrides", slotOverrides.HandleUpsert).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/slot-overrides/{overrideId}", slotOverrides.HandleDelete).Methods(http.MethodDelete)
	admin.HandleFunc("/slots", slotOverrides.HandleClearMaterialized).Methods(http.MethodDelete)

	// --- Консультанты ---
	admin.HandleFunc("/consultants", consultants.HandleAdminList).Methods(http.MethodGet)
	admin.HandleFunc("/consultants", consultants.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/consultants/{consultantId}", consultants.HandleUpdate).Methods(http.MethodPut)
	admin.HandleFunc("/consultants/{consultantId}", consultants.HandleDeactivate).Methods(http.MethodDelete)

	// ============================================================
	// USER ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/active", getActiveBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/me", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", updateBooking.HandleCancel).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/reschedule", updateBooking.HandleReschedule).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me", userProfile.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", userProfile.HandleUpdate).Methods(http.MethodPut)

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
		log.Info("Starting server on %s (datasource=%s, timezone=%s)", addr, cfg.Datasource.Kind, window.Location)
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

	// Дожидаемся отправки уведомлений по уже созданным бронированиям
	dispatcher.Wait()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
