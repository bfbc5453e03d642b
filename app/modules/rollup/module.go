package rollup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	rollupservice "github.com/ringside-labs/fightstats/app/modules/rollup/application"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	rolluprouter "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/router"
	"github.com/ringside-labs/fightstats/config"
	rollupmetrics "github.com/ringside-labs/fightstats/internal/observability/metrics/rollup"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the rollup module.
type Module struct {
	Service      rollupservice.Service
	RollupRouter *rolluprouter.RollupRouter
	logger       *slog.Logger
	config       *config.Config
	cancelFunc   context.CancelFunc
}

// NewRollupModule creates a new instance of the rollup module.
func NewRollupModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics rollupmetrics.RollupMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	prometheusRegistry *prometheus.Registry,
) (*Module, error) {
	logger.InfoContext(ctx, "rollup.NewRollupModule called")

	source := &rollupdb.EventSourceImpl{DB: db}
	writer := &rollupdb.RollupWriterImpl{DB: db, ChunkSize: cfg.Rollup.MaxChunkSize}

	service := rollupservice.NewRollupService(
		source,
		writer,
		publisher,
		logger,
		metrics,
		tracer,
		cfg.Rollup.PageSize,
	)

	rollupRouter := rolluprouter.NewRollupRouter(logger, router, subscriber, publisher, prometheusRegistry)
	if err := rollupRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure rollup router: %w", err)
	}

	return &Module{
		Service:      service,
		RollupRouter: rollupRouter,
		logger:       logger,
		config:       cfg,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting rollup module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Rollup module goroutine stopped")
}

// Close stops the module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
