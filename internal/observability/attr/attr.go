// Package attr provides slog attribute helpers shared across modules.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationIDKey struct{}

// WithCorrelationID stores a correlation id on the context for later log
// extraction.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// ExtractCorrelationID returns the correlation id attribute for the context,
// or an empty-valued attribute when none is set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}

// String returns a string attribute.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an int attribute.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Bool returns a bool attribute.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns a duration attribute.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any returns an attribute for an arbitrary value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns the conventional error attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
