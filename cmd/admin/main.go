package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/securecookie"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/config"
	"finitefield.org/catalog-admin/internal/admin/console"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/session"
)

func main() {
	rootCtx := context.Background()

	cfg, err := config.Load(rootCtx)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.Telemetry.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.SetupTracing(rootCtx, observability.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Server.Environment,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		logger.Fatal("setup tracing", zap.Error(err))
	}

	service, err := buildCatalog(cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("catalog service", zap.Error(err))
	}

	sessions, err := buildSessions(cfg.Session, logger)
	if err != nil {
		logger.Fatal("session manager", zap.Error(err))
	}

	srv := httpserver.New(httpserver.Config{
		Address:        cfg.Server.Address,
		BasePath:       cfg.Server.BasePath,
		Environment:    cfg.Server.Environment,
		ServiceName:    cfg.Telemetry.ServiceName,
		Logger:         logger,
		CatalogService: service,
		ConsoleOptions: console.Options{
			PageSizes:       cfg.Console.PageSizes,
			DefaultPageSize: cfg.Console.DefaultPageSize,
			SearchDebounce:  cfg.Console.SearchDebounce,
		},
		ConsoleIdleTimeout: cfg.Session.IdleTimeout,
		Sessions:           sessions,
		CSRFCookieSecure:   cfg.Session.CSRFCookieSecure,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		IdleTimeout:        cfg.Server.IdleTimeout,
	})

	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("admin server listening",
		zap.String("address", cfg.Server.Address),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("catalog_mode", string(cfg.Catalog.Mode)),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(rootCtx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
}

func buildCatalog(cfg config.CatalogConfig, logger *zap.Logger) (catalog.Service, error) {
	if cfg.Mode == config.CatalogModeStatic {
		logger.Info("using in-memory catalog")
		return catalog.NewStaticService(), nil
	}

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}
	service, err := catalog.NewHTTPService(cfg.BaseURL, client)
	if err != nil {
		return nil, err
	}
	return service, nil
}

func buildSessions(cfg config.SessionConfig, logger *zap.Logger) (*session.Manager, error) {
	hashKey := cfg.HashKey
	if len(hashKey) == 0 {
		logger.Warn("ADMIN_SESSION_HASH_KEY not set; sessions will not survive a restart")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	return session.NewManager(session.Config{
		HashKey:      hashKey,
		BlockKey:     cfg.BlockKey,
		CookieSecure: cfg.CSRFCookieSecure,
		IdleTimeout:  cfg.IdleTimeout,
	})
}
