package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	possyncapp "github.com/bobashop/backend/internal/application/possync"
	"github.com/bobashop/backend/internal/infrastructure/cache"
	"github.com/bobashop/backend/internal/infrastructure/config"
	"github.com/bobashop/backend/internal/infrastructure/iiko"
	"github.com/bobashop/backend/internal/infrastructure/logger"
	"github.com/bobashop/backend/internal/infrastructure/persistence"
	"github.com/bobashop/backend/internal/infrastructure/scheduler"
	"github.com/bobashop/backend/internal/interfaces/http/handler"
	"github.com/bobashop/backend/internal/interfaces/http/middleware"
	"github.com/bobashop/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Optional Redis lock store for cross-instance tick serialization.
	// Without it the scheduler still runs, guarded only in-process.
	var lockStore scheduler.LockStore
	if cfg.Redis.Enabled {
		redisLocks, err := cache.NewRedisSyncLockStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, running without cross-instance lock", zap.Error(err))
		} else {
			lockStore = redisLocks
			defer func() {
				if err := redisLocks.Close(); err != nil {
					log.Error("Error closing Redis connection", zap.Error(err))
				}
			}()
			log.Info("Redis sync lock store connected",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		}
	}

	// Initialize repositories
	configRepo := persistence.NewGormStoreConfigRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	queueRepo := persistence.NewGormSyncQueueRepository(db.DB)
	recordRepo := persistence.NewGormSyncRecordRepository(db.DB)
	productMappingRepo := persistence.NewGormProductMappingRepository(db.DB)
	categoryMappingRepo := persistence.NewGormCategoryMappingRepository(db.DB)

	// Initialize POS adapter
	posHTTP := iiko.NewClient(cfg.Iiko.RequestTimeout, log)
	tokenManager := iiko.NewTokenManager(configRepo, posHTTP, cfg.Iiko.TokenSafetyMargin, log)
	posClient := iiko.NewOrderSyncClient(
		posHTTP,
		tokenManager,
		configRepo,
		orderRepo,
		productMappingRepo,
		cfg.Iiko.SyncWindowSize,
		log,
	)

	// Initialize application services
	queueProcessor, err := possyncapp.NewQueueProcessor(queueRepo, recordRepo, posClient, possyncapp.ProcessorConfig{
		BatchSize:   cfg.Sync.BatchSize,
		Concurrency: cfg.Iiko.SyncWindowSize,
		MaxRetries:  cfg.Sync.MaxRetries,
	}, log)
	if err != nil {
		log.Fatal("Failed to create queue processor", zap.Error(err))
	}
	menuSync := possyncapp.NewMenuSyncService(configRepo, posClient, categoryMappingRepo, productMappingRepo, log)

	// Initialize sync scheduler
	syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
		Enabled:           cfg.Sync.Enabled,
		OrderSyncInterval: cfg.Sync.OrderSyncInterval,
		MenuSyncInterval:  cfg.Sync.MenuSyncInterval,
		JobTimeout:        cfg.Sync.JobTimeout,
		RunOnStart:        cfg.Sync.RunOnStart,
	}, queueProcessor, menuSync, lockStore, log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	if cfg.Sync.Enabled {
		if err := syncScheduler.Start(appCtx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		log.Info("Sync scheduler started",
			zap.Duration("order_interval", cfg.Sync.OrderSyncInterval),
			zap.Duration("menu_interval", cfg.Sync.MenuSyncInterval),
			zap.Bool("run_on_start", cfg.Sync.RunOnStart),
		)
	} else {
		log.Info("Sync scheduler disabled, jobs run only via the admin API")
	}

	// Initialize HTTP handlers
	healthHandler := handler.NewHealthHandler(db)
	syncHandler := handler.NewSyncHandler(
		syncScheduler,
		queueRepo,
		recordRepo,
		productMappingRepo,
		categoryMappingRepo,
		appCtx,
		log,
	)
	storeConfigHandler := handler.NewStoreConfigHandler(configRepo, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinRecovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning and admin auth)
	healthHandler.RegisterRoutes(engine)

	if cfg.Admin.Token == "" {
		log.Warn("Admin token is empty, sync endpoints are unauthenticated")
	}

	// Setup API routes
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.AdminAuth(cfg.Admin.Token)),
	)
	r.Register(syncHandler)
	r.Register(storeConfigHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	// Stop the scheduler first so no new POS calls start, then drain HTTP.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if syncScheduler.IsRunning() {
		if err := syncScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping sync scheduler", zap.Error(err))
		}
	}
	appCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
