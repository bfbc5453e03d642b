package rolluphandlers

import (
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	rollupservice "github.com/ringside-labs/fightstats/app/modules/rollup/application"
	rollupevents "github.com/ringside-labs/fightstats/app/modules/rollup/domain/events"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// Handlers is the message-handling surface of the rollup module.
type Handlers interface {
	HandleRunRequested(msg *message.Message) error
}

// RollupHandlers handles rollup-related events.
type RollupHandlers struct {
	service   rollupservice.Service
	publisher message.Publisher
	logger    *slog.Logger
}

// NewRollupHandlers creates a new RollupHandlers.
func NewRollupHandlers(service rollupservice.Service, publisher message.Publisher, logger *slog.Logger) *RollupHandlers {
	return &RollupHandlers{service: service, publisher: publisher, logger: logger}
}

// HandleRunRequested runs the rollup pipeline for the requested window and
// publishes a completed or failed event. Fatal run errors become a failed
// event rather than a handler error: a redelivered full rescan would fail
// the same way, so there is nothing to gain from a retry loop.
func (h *RollupHandlers) HandleRunRequested(msg *message.Message) error {
	ctx := msg.Context()
	if correlationID := msg.Metadata.Get("correlation_id"); correlationID != "" {
		ctx = attr.WithCorrelationID(ctx, correlationID)
	}

	var payload rollupevents.RunRequestedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unmarshal run request",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		// Malformed payloads are dropped, not redelivered.
		return nil
	}

	h.logger.InfoContext(ctx, "Handling rollup run request",
		attr.String("window", payload.WindowLabel),
		attr.String("requested_by", payload.RequestedBy),
		attr.ExtractCorrelationID(ctx),
	)

	summary, err := h.service.Run(ctx, payload.WindowLabel, nil)
	if err != nil {
		return h.publish(rollupevents.RunFailedV1, rollupevents.RunFailedPayloadV1{
			WindowLabel: payload.WindowLabel,
			Reason:      err.Error(),
		}, msg)
	}

	return h.publish(rollupevents.RunCompletedV1, rollupevents.RunCompletedPayloadV1{Summary: summary}, msg)
}

func (h *RollupHandlers) publish(subject string, payload any, cause *message.Message) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	out := message.NewMessage(watermill.NewUUID(), data)
	if correlationID := cause.Metadata.Get("correlation_id"); correlationID != "" {
		out.Metadata.Set("correlation_id", correlationID)
	}
	return h.publisher.Publish(subject, out)
}
