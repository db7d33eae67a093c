// Package app assembles the dashboard server: configuration, logging,
// services, router and graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"sispulse/internal/config"
	"sispulse/internal/infrastructure"
	"sispulse/internal/middleware"
	"sispulse/internal/services"
	handlers "sispulse/internal/transport/http"
)

// Version identifies the running build in logs and health responses.
const Version = "1.0.0"

// Application wires configuration, services, router and server for the
// dashboard binary.
type Application struct {
	Config      *config.Config
	Paths       *config.Paths
	Logger      *slog.Logger
	Router      *chi.Mux
	Server      *http.Server
	DataService *services.DataService
	Metrics     *infrastructure.MetricsProvider
}

// NewApplication loads configuration and assembles the dashboard server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	metrics, err := infrastructure.InitializeMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	app := &Application{
		Config:      cfg,
		Paths:       paths,
		Logger:      logger,
		DataService: services.NewDataService(paths, logger),
		Metrics:     metrics,
	}
	app.Router, err = app.buildRouter()
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("application assembled",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("data_dir", cfg.Paths.DataDir))

	return app, nil
}

func (a *Application) buildRouter() (*chi.Mux, error) {
	requestMetrics, err := middleware.RequestMetrics(a.Metrics.Meter("sispulse/http"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(requestMetrics)
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(chimiddleware.Timeout(a.Config.Server.WriteTimeout))

	r.Mount("/api/health", handlers.NewHealthHandler(a.Paths, Version).Routes())
	r.Mount("/api/data", handlers.NewDataHandler(a.DataService, a.Logger).Routes())
	r.Handle("/metrics", promhttp.HandlerFor(a.Metrics.Registry(), promhttp.HandlerOpts{}))

	return r, nil
}

// Run serves until the context is cancelled or an interrupt arrives, then
// shuts down gracefully within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Info("server stopped")
	return nil
}
