package rollupservice

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// ProgressSubject carries run progress lines for any interested subscriber
// (the UI streams these to the operator).
const ProgressSubject = "rollup.progress.v1"

// progressEmitter fans one status line out to the synchronous callback and,
// when a publisher is configured, to the event bus. Bus publish failures
// are logged and swallowed; progress is best-effort and never fails a run.
type progressEmitter struct {
	windowLabel string
	onProgress  ProgressFunc
	publisher   message.Publisher
	logger      *slog.Logger
}

func (e *progressEmitter) Emit(ctx context.Context, line string) {
	if e.onProgress != nil {
		e.onProgress(line)
	}

	if e.publisher == nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), []byte(line))
	msg.Metadata.Set("window_label", e.windowLabel)
	if err := e.publisher.Publish(ProgressSubject, msg); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish progress message",
			attr.String("window", e.windowLabel),
			attr.Error(err),
		)
	}
}
