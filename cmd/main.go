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

	cancelReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_reservation"
	getStaffReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_staff_reservations"
	getStoreSettingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_store_settings"
	getUserReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_user_reservations"
	updateReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_reservation"
	updateReservationStatusHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_reservation_status"
	updateStoreSettingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_store_settings"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	blockedSlotRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/blockedslot"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	featureFlagsClient "github.com/m04kA/SMC-SalonService/internal/integrations/featureflags"
	notifierClient "github.com/m04kA/SMC-SalonService/internal/integrations/notifier"
	reservationsService "github.com/m04kA/SMC-SalonService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-SalonService/internal/service/settings"
	createReservationUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
	updateReservationUC "github.com/m04kA/SMC-SalonService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

func main() {
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

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
	flagsClient := featureFlagsClient.NewClient(
		cfg.FeatureFlags.URL,
		time.Duration(cfg.FeatureFlags.Timeout)*time.Second,
		featureFlagsClient.Flags{
			EnableStaffShiftManagement: cfg.Features.EnableStaffShiftManagement,
			EnableStaffSelection:       cfg.Features.EnableStaffSelection,
		},
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (FeatureFlags=%q, Notifier=%q)",
		cfg.FeatureFlags.URL, cfg.Notifier.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		settingsRepository    *settingsRepo.Repository
		menuRepository        *menuRepo.Repository
		staffRepository       *staffRepo.Repository
		blockedSlotRepository *blockedSlotRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		menuRepository = menuRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		blockedSlotRepository = blockedSlotRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		reservationRepository = reservationRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		menuRepository = menuRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		blockedSlotRepository = blockedSlotRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		staffRepository,
		notifier,
		log,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		settingsRepository,
		menuRepository,
		staffRepository,
		blockedSlotRepository,
		flagsClient,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		settingsRepository,
		menuRepository,
		staffRepository,
		blockedSlotRepository,
		flagsClient,
		notifier,
		txMgr,
		log,
	)

	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		settingsRepository,
		menuRepository,
		staffRepository,
		blockedSlotRepository,
		flagsClient,
		txMgr,
		log,
	)

	// Счётчик конфликтов бронирования (nil, если метрики выключены)
	var createConflicts createReservationHandler.ConflictMetrics
	var updateConflicts updateReservationHandler.ConflictMetrics
	if cfg.Metrics.Enabled {
		createConflicts = metricsCollector
		updateConflicts = metricsCollector
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, createConflicts, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, updateConflicts, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getStaffReservations := getStaffReservationsHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	getStoreSettings := getStoreSettingsHandler.NewHandler(settingsSvc, log)
	updateStoreSettings := updateStoreSettingsHandler.NewHandler(settingsSvc, log)

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

	// Получение доступных слотов для записи
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение настроек салона
	api.HandleFunc("/settings", getStoreSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Перенос записи на другое время
	protected.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPut)

	// Отмена записи
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/me/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Администрирование салона ---
	// Обновление статуса записи (подтверждение, завершение, неявка)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// Расписание сотрудника на день
	protected.HandleFunc("/staff/{staffId}/reservations", getStaffReservations.Handle).Methods(http.MethodGet)

	// Обновление настроек салона
	protected.HandleFunc("/settings", updateStoreSettings.Handle).Methods(http.MethodPut)

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
