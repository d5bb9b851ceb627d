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

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	getBoardHandler "github.com/velodrive/VRB-SyncService/internal/api/handlers/get_board"
	getSyncStatusHandler "github.com/velodrive/VRB-SyncService/internal/api/handlers/get_sync_status"
	runSyncHandler "github.com/velodrive/VRB-SyncService/internal/api/handlers/run_sync"
	"github.com/velodrive/VRB-SyncService/internal/api/middleware"
	"github.com/velodrive/VRB-SyncService/internal/config"
	legacyRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/legacy"
	modernRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/modern"
	migrationService "github.com/velodrive/VRB-SyncService/internal/service/migration"
	migrateReservationUC "github.com/velodrive/VRB-SyncService/internal/usecase/migrate_reservation"
	syncReservationsUC "github.com/velodrive/VRB-SyncService/internal/usecase/sync_reservations"
	unifiedBoardUC "github.com/velodrive/VRB-SyncService/internal/usecase/unified_board"
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
	"github.com/velodrive/VRB-SyncService/pkg/logger"
	"github.com/velodrive/VRB-SyncService/pkg/metrics"
	"github.com/velodrive/VRB-SyncService/pkg/simpletxmanager"
	"github.com/velodrive/VRB-SyncService/pkg/txmanager"
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

	log.Info("Starting VRB-SyncService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к легаси-хранилищу (MySQL, строго read-only)
	legacyDB, err := sql.Open("mysql", cfg.LegacyDB.DSN())
	if err != nil {
		log.Fatal("Failed to connect to legacy database: %v", err)
	}
	defer legacyDB.Close()

	legacyDB.SetMaxOpenConns(cfg.LegacyDB.MaxOpenConns)
	legacyDB.SetMaxIdleConns(cfg.LegacyDB.MaxIdleConns)
	legacyDB.SetConnMaxLifetime(time.Duration(cfg.LegacyDB.ConnMaxLifetime) * time.Second)

	if err := legacyDB.Ping(); err != nil {
		log.Fatal("Failed to ping legacy database: %v", err)
	}
	log.Info("Successfully connected to legacy database (host=%s, port=%d, db=%s)",
		cfg.LegacyDB.Host, cfg.LegacyDB.Port, cfg.LegacyDB.DBName)

	// Подключаемся к современному хранилищу (PostgreSQL)
	modernDB, err := sql.Open("postgres", cfg.ModernDB.DSN())
	if err != nil {
		log.Fatal("Failed to connect to modern database: %v", err)
	}
	defer modernDB.Close()

	modernDB.SetMaxOpenConns(cfg.ModernDB.MaxOpenConns)
	modernDB.SetMaxIdleConns(cfg.ModernDB.MaxIdleConns)
	modernDB.SetConnMaxLifetime(time.Duration(cfg.ModernDB.ConnMaxLifetime) * time.Second)

	if err := modernDB.Ping(); err != nil {
		log.Fatal("Failed to ping modern database: %v", err)
	}
	log.Info("Successfully connected to modern database (host=%s, port=%d, db=%s)",
		cfg.ModernDB.Host, cfg.ModernDB.Port, cfg.ModernDB.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		legacyRepository *legacyRepo.Repository
		modernRepository *modernRepo.Repository
		txMgr            migrateReservationUC.TransactionManager
		syncMetrics      syncReservationsUC.MetricsRecorder
	)

	if cfg.Metrics.Enabled {
		wrappedLegacy := dbmetrics.WrapWithDefault(legacyDB, metricsCollector, "legacy", stopMetricsCh)
		wrappedModern := dbmetrics.WrapWithDefault(modernDB, metricsCollector, "modern", stopMetricsCh)
		log.Info("Database metrics collection started")

		legacyRepository = legacyRepo.NewRepository(wrappedLegacy)
		modernRepository = modernRepo.NewRepository(wrappedModern)
		txMgr = txmanager.NewTransactionManager(wrappedModern)
		syncMetrics = metricsCollector
	} else {
		legacyRepository = legacyRepo.NewRepository(legacyDB)
		modernRepository = modernRepo.NewRepository(modernDB)
		txMgr = simpletxmanager.NewTransactionManager(modernDB)
	}

	// Инициализируем use cases
	migrateReservationUseCase := migrateReservationUC.NewUseCase(
		modernRepository,
		txMgr,
		log,
	)

	syncReservationsUseCase := syncReservationsUC.NewUseCase(
		legacyRepository,
		migrateReservationUseCase,
		syncReservationsUC.Params{
			HorizonDays:    cfg.Sync.HorizonDays,
			BatchTimeout:   time.Duration(cfg.Sync.BatchTimeout) * time.Second,
			MaxConcurrency: cfg.Sync.MaxConcurrency,
		},
		syncMetrics,
		log,
	)

	unifiedBoardUseCase := unifiedBoardUC.NewUseCase(
		legacyRepository,
		modernRepository,
		log,
	)

	// Инициализируем сервисы
	migrationSvc := migrationService.NewService(
		legacyRepository,
		modernRepository,
		log,
	)

	// Инициализируем handlers
	runSync := runSyncHandler.NewHandler(syncReservationsUseCase, log)
	getSyncStatus := getSyncStatusHandler.NewHandler(migrationSvc, cfg.Sync.HorizonDays, log)
	getBoard := getBoardHandler.NewHandler(unifiedBoardUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Объединенная доска диспетчера на дату
	api.HandleFunc("/board", getBoard.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (bearer токен внешнего планировщика)
	// ============================================================

	protected := api.PathPrefix("/sync").Subrouter()
	protected.Use(middleware.BearerAuth(cfg.Sync.Token, log))

	// Прогон синхронизации (вызывается внешним планировщиком)
	protected.HandleFunc("/run", runSync.Handle).Methods(http.MethodPost)

	// Прогресс миграции в текущем окне
	protected.HandleFunc("/status", getSyncStatus.Handle).Methods(http.MethodGet)

	// Внутренний cron-запуск синка (опционально, для стендов без
	// внешнего планировщика)
	var cronRunner *cron.Cron
	if cfg.Sync.Cron != "" {
		cronRunner = cron.New()
		_, err := cronRunner.AddFunc(cfg.Sync.Cron, func() {
			result, err := syncReservationsUseCase.Execute(context.Background(), &syncReservationsUC.Request{})
			if err != nil {
				log.Error("Cron sync run failed: %v", err)
				return
			}
			log.Info("Cron sync run completed: processed=%d succeeded=%d skipped=%d failed=%d",
				result.Processed, result.Succeeded, result.Skipped, result.Failed)
		})
		if err != nil {
			log.Fatal("Invalid sync.cron expression %q: %v", cfg.Sync.Cron, err)
		}
		cronRunner.Start()
		log.Info("Internal sync scheduler started (cron=%q)", cfg.Sync.Cron)
	}

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

	// Останавливаем внутренний планировщик, дожидаясь текущего прогона
	if cronRunner != nil {
		<-cronRunner.Stop().Done()
		log.Info("Internal sync scheduler stopped")
	}

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
