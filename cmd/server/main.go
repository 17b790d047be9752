package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/cache"
	"github.com/SAP-F-2025/interview-session-service/internal/catalog"
	"github.com/SAP-F-2025/interview-session-service/internal/config"
	"github.com/SAP-F-2025/interview-session-service/internal/events"
	"github.com/SAP-F-2025/interview-session-service/internal/handlers"
	"github.com/SAP-F-2025/interview-session-service/internal/metrics"
	"github.com/SAP-F-2025/interview-session-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/interview-session-service/internal/services"
	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/SAP-F-2025/interview-session-service/internal/validator"
	"github.com/SAP-F-2025/interview-session-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)
	appLogger := utils.NewSlogLogger(logger)

	// ── Interview bank ──────────────────────────────────────────────
	v := validator.New()
	bank, err := catalog.LoadFile(cfg.CatalogPath, v)
	if err != nil {
		return err
	}
	logger.Info("interview bank loaded",
		"path", cfg.CatalogPath,
		"interviews", len(bank.Interviews()),
		"topics", len(bank.Topics()))

	// ── History store ───────────────────────────────────────────────
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := pkg.CloseDatabase(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	historyService := services.NewHistoryService(postgres.NewAttemptPostgreSQL(db), v, logger)

	// ── Catalog cache ───────────────────────────────────────────────
	ctx := context.Background()
	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, catalog responses will not be cached", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}
	catalogService := services.NewCatalogService(bank, cacheService, cfg.CacheTTL, logger)
	if err := catalogService.InvalidateCache(ctx); err != nil {
		logger.Warn("failed to clear stale catalog cache", "error", err)
	}

	// ── Sessions ────────────────────────────────────────────────────
	bus, err := cfg.Events.CreateEventBus(logger)
	if err != nil {
		return err
	}
	publisher := bus.Publisher
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	if bus.Subscriber != nil {
		eventRouter, err := events.NewSessionEventRouter(bus.Subscriber, cfg.Events.SessionTopic, events.AuditSessionEvent(logger), logger)
		if err != nil {
			return err
		}
		go func() {
			if err := eventRouter.Run(ctx); err != nil {
				logger.Error("session event router stopped", "error", err)
			}
		}()
		defer eventRouter.Close()
		// the in-process bus drops messages published before the subscription exists
		<-eventRouter.Running()
	}

	sessionService := services.NewSessionService(
		bank,
		publisher,
		historyService,
		metrics.NewRecorder(),
		services.SessionServiceConfig{TTL: cfg.SessionTTL, MaxSessions: cfg.MaxSessions},
		logger,
	)

	scheduler := services.NewTickScheduler(sessionService, services.SchedulerConfig{
		TickSchedule:  cfg.Scheduler.TickSchedule,
		SweepSchedule: cfg.Scheduler.SweepSchedule,
	}, appLogger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	// ── HTTP ────────────────────────────────────────────────────────
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if engine, ok := binding.Validator.Engine().(*playground.Validate); ok {
		validator.RegisterCustomValidators(engine)
	}

	router := gin.New()
	httpLog := services.NewServiceLogger(logger, services.LogConfig{Service: "interview-session", Component: "http"})
	router.Use(utils.RequestID(), handlers.RecoveryMiddleware(httpLog), utils.LoggerMiddleware(appLogger), metrics.Middleware())

	manager := services.NewServiceManager(sessionService, catalogService, historyService)
	handlers.NewHandlerManager(manager, appLogger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		scheduler.Stop(ctx)
		return err
	case sig := <-sigChan:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}
	logger.Info("server stopped", "live_sessions", sessionService.Count())
	return nil
}
