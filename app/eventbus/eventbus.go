package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName is the JetStream stream carrying all rollup subjects.
const StreamName = "ROLLUP"

// StreamSubjects is the subject space captured by the stream.
const StreamSubjects = "rollup.>"

// EventBus wraps a watermill-nats publisher/subscriber pair over one NATS
// JetStream connection.
type EventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus creates an EventBus connected to NATS JetStream and ensures the
// rollup stream exists.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (*EventBus, error) {
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to initialize JetStream", slog.Any("error", err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaler,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaler,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		_ = publisher.Close()
		natsConn.Close()
		logger.Error("Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	bus := &EventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}

	if err := bus.CreateStream(ctx, StreamName, StreamSubjects); err != nil {
		_ = bus.Close()
		return nil, err
	}

	return bus, nil
}

// Publisher returns the underlying watermill publisher.
func (eb *EventBus) Publisher() message.Publisher {
	return eb.publisher
}

// Subscriber returns the underlying watermill subscriber.
func (eb *EventBus) Subscriber() message.Subscriber {
	return eb.subscriber
}

// CreateStream ensures a JetStream stream exists for the given subject space.
func (eb *EventBus) CreateStream(ctx context.Context, streamName string, subjects string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	_, err := eb.js.Stream(ctx, streamName)
	if err != nil && !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to check if stream exists: %w", err)
	}

	if errors.Is(err, jetstream.ErrStreamNotFound) {
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: []string{subjects},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		eb.logger.Info("Stream created",
			slog.String("stream_name", streamName),
			slog.String("subjects", subjects),
		)
	}

	eb.createdStreams[streamName] = true
	return nil
}

// Close shuts down the publisher, subscriber, and NATS connection.
func (eb *EventBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	if err := eb.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}
	eb.natsConn.Close()
	return errors.Join(errs...)
}
