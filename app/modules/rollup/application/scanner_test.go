package rollupservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventScannerPagination(t *testing.T) {
	source := NewFakeEventSource()
	source.Events = []rolluptypes.Event{
		{ID: "ev1", Name: "One", Date: "2024-01-10"},
		{ID: "ev2", Name: "Two", Date: "2024-03-20"},
		{ID: "ev3", Name: "Three", Date: "2024-06-05"},
		{ID: "ev4", Name: "Four", Date: "2024-09-12"},
		{ID: "ev5", Name: "Five", Date: "2024-11-30"},
		{ID: "old", Name: "Old", Date: "2023-12-31"},
	}

	scanner := NewEventScanner(source, 2, discardLogger())

	var visited []string
	err := scanner.Scan(context.Background(), "2024-01-01", "2024-12-31", func(e rolluptypes.Event) error {
		visited = append(visited, e.ID)
		return nil
	})
	require.NoError(t, err)

	// Date descending, window-filtered, each event exactly once.
	assert.Equal(t, []string{"ev5", "ev4", "ev3", "ev2", "ev1"}, visited)

	// Page size 2 over 5 events: 2+2+1 plus the empty terminating page.
	queries := 0
	for _, step := range source.Trace() {
		if step == "QueryEvents" {
			queries++
		}
	}
	assert.Equal(t, 4, queries)
}

func TestEventScannerQueryErrorAborts(t *testing.T) {
	source := NewFakeEventSource()
	queryErr := errors.New("connection reset")
	source.QueryEventsFunc = func(ctx context.Context, start, end string, cursor rollupdb.Cursor, limit int) (rollupdb.EventPage, error) {
		return rollupdb.EventPage{}, queryErr
	}

	scanner := NewEventScanner(source, 10, discardLogger())
	err := scanner.Scan(context.Background(), "2024-01-01", "2024-12-31", func(rolluptypes.Event) error {
		t.Fatal("visit must not be called")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
}

func TestEventScannerVisitErrorAborts(t *testing.T) {
	source := NewFakeEventSource()
	source.Events = []rolluptypes.Event{
		{ID: "ev1", Name: "One", Date: "2024-01-10"},
		{ID: "ev2", Name: "Two", Date: "2024-03-20"},
	}

	scanner := NewEventScanner(source, 10, discardLogger())
	visitErr := errors.New("downstream failure")
	visits := 0
	err := scanner.Scan(context.Background(), "2024-01-01", "2024-12-31", func(rolluptypes.Event) error {
		visits++
		return visitErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, visitErr)
	assert.Equal(t, 1, visits)
}
