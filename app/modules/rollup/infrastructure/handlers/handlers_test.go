package rolluphandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	rollupservice "github.com/ringside-labs/fightstats/app/modules/rollup/application"
	rollupevents "github.com/ringside-labs/fightstats/app/modules/rollup/domain/events"
	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FakeRollupService provides a programmable stub for the service interface.
type FakeRollupService struct {
	RunFunc func(ctx context.Context, windowLabel string, onProgress rollupservice.ProgressFunc) (rolluptypes.RunSummary, error)
}

func (f *FakeRollupService) Run(ctx context.Context, windowLabel string, onProgress rollupservice.ProgressFunc) (rolluptypes.RunSummary, error) {
	if f.RunFunc != nil {
		return f.RunFunc(ctx, windowLabel, onProgress)
	}
	return rolluptypes.RunSummary{Success: true, WindowLabel: windowLabel}, nil
}

// FakePublisher captures published messages by topic.
type FakePublisher struct {
	Published map[string][]*message.Message
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func requestMessage(t *testing.T, windowLabel string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(rollupevents.RunRequestedPayloadV1{WindowLabel: windowLabel})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestHandleRunRequestedSuccess(t *testing.T) {
	service := &FakeRollupService{}
	publisher := NewFakePublisher()
	handlers := NewRollupHandlers(service, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := handlers.HandleRunRequested(requestMessage(t, "2024"))
	require.NoError(t, err)

	completed := publisher.Published[rollupevents.RunCompletedV1]
	require.Len(t, completed, 1)

	var payload rollupevents.RunCompletedPayloadV1
	require.NoError(t, json.Unmarshal(completed[0].Payload, &payload))
	assert.True(t, payload.Summary.Success)
	assert.Equal(t, "2024", payload.Summary.WindowLabel)
}

func TestHandleRunRequestedFatalRunError(t *testing.T) {
	service := &FakeRollupService{
		RunFunc: func(ctx context.Context, windowLabel string, onProgress rollupservice.ProgressFunc) (rolluptypes.RunSummary, error) {
			return rolluptypes.RunSummary{WindowLabel: windowLabel}, errors.New("commit failed")
		},
	}
	publisher := NewFakePublisher()
	handlers := NewRollupHandlers(service, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := handlers.HandleRunRequested(requestMessage(t, "2024"))
	require.NoError(t, err)

	failed := publisher.Published[rollupevents.RunFailedV1]
	require.Len(t, failed, 1)

	var payload rollupevents.RunFailedPayloadV1
	require.NoError(t, json.Unmarshal(failed[0].Payload, &payload))
	assert.Equal(t, "2024", payload.WindowLabel)
	assert.Contains(t, payload.Reason, "commit failed")
}

func TestHandleRunRequestedMalformedPayloadDropped(t *testing.T) {
	service := &FakeRollupService{
		RunFunc: func(ctx context.Context, windowLabel string, onProgress rollupservice.ProgressFunc) (rolluptypes.RunSummary, error) {
			t.Fatal("service must not run for malformed payloads")
			return rolluptypes.RunSummary{}, nil
		},
	}
	publisher := NewFakePublisher()
	handlers := NewRollupHandlers(service, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	err := handlers.HandleRunRequested(msg)
	require.NoError(t, err)
	assert.Empty(t, publisher.Published)
}

func TestHandleRunRequestedPropagatesCorrelationID(t *testing.T) {
	service := &FakeRollupService{}
	publisher := NewFakePublisher()
	handlers := NewRollupHandlers(service, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	msg := requestMessage(t, "2024")
	msg.Metadata.Set("correlation_id", "corr-42")
	require.NoError(t, handlers.HandleRunRequested(msg))

	completed := publisher.Published[rollupevents.RunCompletedV1]
	require.Len(t, completed, 1)
	assert.Equal(t, "corr-42", completed[0].Metadata.Get("correlation_id"))
}
