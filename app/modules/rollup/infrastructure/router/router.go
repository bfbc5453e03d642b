package rolluprouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	rollupservice "github.com/ringside-labs/fightstats/app/modules/rollup/application"
	rollupevents "github.com/ringside-labs/fightstats/app/modules/rollup/domain/events"
	rolluphandlers "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/handlers"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// RollupRouter wires the rollup handlers onto the shared watermill router.
type RollupRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         message.Subscriber
	publisher          message.Publisher
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

// NewRollupRouter creates a new RollupRouter.
func NewRollupRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	prometheusRegistry *prometheus.Registry,
) *RollupRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &RollupRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers the rollup handlers and middleware on the router.
func (r *RollupRouter) Configure(routerCtx context.Context, service rollupservice.Service) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Timeout(30*time.Minute), // a full-year rescan is slow by design
	)

	handlers := rolluphandlers.NewRollupHandlers(service, r.publisher, r.logger)

	r.Router.AddNoPublisherHandler(
		"rollup.handle_run_requested",
		rollupevents.RunRequestedV1,
		r.subscriber,
		handlers.HandleRunRequested,
	)

	return nil
}

// Close stops the underlying router.
func (r *RollupRouter) Close() error {
	if err := r.Router.Close(); err != nil {
		return fmt.Errorf("failed to close rollup router: %w", err)
	}
	return nil
}
