package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"moviesearch/internal/config"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/logger"
	"moviesearch/internal/metrics"
	"moviesearch/internal/search"
)

// App wires the services one command run needs
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Bus       eventbus.EventBus
	Registry  *prometheus.Registry
	Searcher  search.Searcher
	Projector *search.Projector

	recorder *metrics.Recorder
}

// newApp validates cfg and builds the logger, event bus, metrics and search client
func newApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	projector, err := search.NewProjector(cfg.TitleExpr)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	bus := eventbus.New(log)
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg, log)
	if err != nil {
		bus.Close()
		_ = log.Sync()
		return nil, err
	}
	recorder.Attach(bus)

	client, err := search.NewClient(search.Options{
		Host:        cfg.SearchHost(),
		AppID:       cfg.AppID,
		APIKey:      cfg.APIKey,
		HitsPerPage: cfg.HitsPerPage,
		Timeout:     cfg.RequestTimeout.Std(),
		Logger:      log,
	})
	if err != nil {
		recorder.Detach()
		bus.Close()
		_ = log.Sync()
		return nil, err
	}

	log.Info("starting",
		zap.String("index", cfg.IndexName),
		zap.String("host", cfg.SearchHost()),
		zap.Duration("debounce", cfg.UISettings.Debounce.Std()),
		zap.String("title_expr", projector.Expr()))

	return &App{
		Config:    cfg,
		Logger:    log,
		Bus:       bus,
		Registry:  reg,
		Searcher:  client,
		Projector: projector,
		recorder:  recorder,
	}, nil
}

// serveMetrics starts the metrics endpoint when an address is configured.
// The server stops when ctx is done.
func (a *App) serveMetrics(ctx context.Context) error {
	if a.Config.MetricsAddr == "" {
		return nil
	}
	srv, err := metrics.Listen(a.Config.MetricsAddr, a.Registry, a.Logger)
	if err != nil {
		return fmt.Errorf("metrics endpoint: %w", err)
	}
	go func() {
		if err := srv.Serve(ctx); err != nil {
			a.Logger.Error("metrics endpoint stopped", zap.Error(err))
		}
	}()
	return nil
}

// Close flushes pending events and the log
func (a *App) Close() {
	a.Bus.Close()
	a.recorder.Detach()
	a.Logger.Info("stopped")
	_ = a.Logger.Sync()
}
