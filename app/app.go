package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ringside-labs/fightstats/app/api"
	"github.com/ringside-labs/fightstats/app/eventbus"
	"github.com/ringside-labs/fightstats/app/modules/bracket"
	"github.com/ringside-labs/fightstats/app/modules/rollup"
	"github.com/ringside-labs/fightstats/app/scheduler"
	"github.com/ringside-labs/fightstats/config"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
	rollupmetrics "github.com/ringside-labs/fightstats/internal/observability/metrics/rollup"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
)

// App assembles the config, database, event bus, modules, and HTTP servers.
type App struct {
	Config          *config.Config
	DB              *bun.DB
	EventBus        *eventbus.EventBus
	WatermillRouter *message.Router
	RollupModule    *rollup.Module
	BracketModule   *bracket.Module
	APIServer       *api.Server
	Scheduler       *scheduler.Scheduler
	Registry        *prometheus.Registry

	logger        *slog.Logger
	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp wires every component and returns the ready-to-run application.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := rollupmetrics.NewPrometheusMetrics(registry)
	tracer := otel.Tracer("fightstats")

	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	apiServer := api.NewServer(logger, bus.Publisher())

	rollupModule, err := rollup.NewRollupModule(
		ctx,
		cfg,
		logger,
		metrics,
		tracer,
		db,
		watermillRouter,
		bus.Subscriber(),
		bus.Publisher(),
		registry,
	)
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize rollup module: %w", err)
	}

	bracketModule, err := bracket.NewBracketModule(ctx, cfg, logger, apiServer.Router())
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize bracket module: %w", err)
	}

	sched, err := scheduler.NewScheduler(cfg.Rollup.Schedule, bus.Publisher(), logger)
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{
		Config:          cfg,
		DB:              db,
		EventBus:        bus,
		WatermillRouter: watermillRouter,
		RollupModule:    rollupModule,
		BracketModule:   bracketModule,
		APIServer:       apiServer,
		Scheduler:       sched,
		Registry:        registry,
		logger:          logger,
	}, nil
}

// Run starts the watermill router, HTTP servers, modules, and scheduler, then
// blocks until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.WatermillRouter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error("Watermill router stopped", attr.Error(err))
		}
	}()

	// Handlers registered before Run are only active once the router is up.
	select {
	case <-app.WatermillRouter.Running():
	case <-ctx.Done():
		wg.Wait()
		return ctx.Err()
	}

	wg.Add(1)
	go app.RollupModule.Run(ctx, &wg)

	app.httpServer = &http.Server{
		Addr:    app.Config.HTTP.Address,
		Handler: app.APIServer.Router(),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.logger.Info("HTTP server listening", attr.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server stopped", attr.Error(err))
		}
	}()

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{Addr: addr, Handler: mux}
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.logger.Info("Metrics server listening", attr.String("address", addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.Error("Metrics server stopped", attr.Error(err))
			}
		}()
	}

	if app.Scheduler != nil {
		app.Scheduler.Start()
	}

	<-ctx.Done()
	app.shutdown()
	wg.Wait()
	return nil
}

func (app *App) shutdown() {
	app.logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}
	if app.httpServer != nil {
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Failed to shut down HTTP server", attr.Error(err))
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Failed to shut down metrics server", attr.Error(err))
		}
	}
	if err := app.RollupModule.Close(); err != nil {
		app.logger.Error("Failed to close rollup module", attr.Error(err))
	}
	if err := app.WatermillRouter.Close(); err != nil {
		app.logger.Error("Failed to close watermill router", attr.Error(err))
	}
	if err := app.EventBus.Close(); err != nil {
		app.logger.Error("Failed to close event bus", attr.Error(err))
	}
	if err := app.DB.Close(); err != nil {
		app.logger.Error("Failed to close database", attr.Error(err))
	}
}
