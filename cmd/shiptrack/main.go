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

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/dashboard"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/itemtypes"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/suppliers"
	"github.com/odyssey-erp/shiptrack/internal/observability"
	"github.com/odyssey-erp/shiptrack/internal/platform/cache"
	"github.com/odyssey-erp/shiptrack/internal/platform/db"
	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/shipments"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

const sessionCookieName = "shiptrack_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		applied, err := db.NewMigrator(dbpool, logger).Run(ctx)
		if err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations complete", slog.Int("applied", applied))
	}

	redisClient, err := cache.New(ctx, cache.Options{
		URL:      cfg.RedisURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, sessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()
	rbacMiddleware := rbac.Middleware{Logger: logger}

	usersService := users.NewService(users.NewRepository(dbpool), auditLogger, logger)
	tokens := auth.NewTokenManager(cfg.IDPSigningKey, cfg.IDPIssuer)
	authService := auth.NewService(tokens, usersService)

	suppliersService := suppliers.NewService(suppliers.NewRepository(dbpool), auditLogger, logger)
	itemTypesService := itemtypes.NewService(itemtypes.NewRepository(dbpool), auditLogger, logger)
	shipmentsService := shipments.NewService(shipments.NewRepository(dbpool), metrics, logger)
	dashboardService := dashboard.NewService(dashboard.NewRepository(dbpool))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthMiddleware:   auth.NewMiddleware(logger, authService),
		AuthHandler:      auth.NewHandler(logger, authService, sessionManager, csrfManager),
		UsersHandler:     users.NewHandler(logger, usersService, rbacMiddleware),
		SuppliersHandler: suppliers.NewHandler(logger, suppliersService, rbacMiddleware),
		ItemTypesHandler: itemtypes.NewHandler(logger, itemTypesService, rbacMiddleware),
		ShipmentsHandler: shipments.NewHandler(logger, shipmentsService, rbacMiddleware),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService, rbacMiddleware),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
