package rollupservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
	rollupmetrics "github.com/ringside-labs/fightstats/internal/observability/metrics/rollup"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RollupService implements the Service interface.
type RollupService struct {
	source    rollupdb.EventSource
	writer    rollupdb.ChunkedWriter
	publisher message.Publisher
	logger    *slog.Logger
	metrics   rollupmetrics.RollupMetrics
	tracer    trace.Tracer
	pageSize  int

	// runMu serializes runs within one process. Two concurrent rebuilds of
	// the same window would interleave chunk commits; cross-instance
	// coordination is the deployment's responsibility.
	runMu sync.Mutex
}

// NewRollupService creates a new RollupService. publisher may be nil when
// no event bus is wired (progress then goes only to the callback).
func NewRollupService(
	source rollupdb.EventSource,
	writer rollupdb.ChunkedWriter,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics rollupmetrics.RollupMetrics,
	tracer trace.Tracer,
	pageSize int,
) *RollupService {
	return &RollupService{
		source:    source,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		pageSize:  pageSize,
	}
}

// operationFunc is the signature of a wrapped service operation.
type operationFunc func(ctx context.Context) (rolluptypes.RunSummary, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *RollupService) withTelemetry(
	ctx context.Context,
	operationName string,
	windowLabel string,
	op operationFunc,
) (summary rolluptypes.RunSummary, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("window_label", windowLabel),
	))
	defer span.End()

	s.metrics.RecordRunAttempt(ctx, windowLabel)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordRunDuration(ctx, windowLabel, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("window", windowLabel),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("window", windowLabel),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordRunFailure(ctx, windowLabel)
			span.RecordError(err)
			summary = rolluptypes.RunSummary{WindowLabel: windowLabel}
		}
	}()

	summary, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("window", windowLabel),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordRunFailure(ctx, windowLabel)
		span.RecordError(wrappedErr)
		return summary, wrappedErr
	}

	s.logger.InfoContext(ctx, operationName+" completed",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("window", windowLabel),
		attr.Int("total_records", summary.TotalRecords),
		attr.Duration("duration", time.Since(startTime)),
	)
	s.metrics.RecordRunSuccess(ctx, windowLabel)
	return summary, nil
}
