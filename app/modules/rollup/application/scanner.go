package rollupservice

import (
	"context"
	"fmt"
	"log/slog"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// defaultPageSize is the event scan page size.
const defaultPageSize = 50

// EventScanner pages through the event collection for a date window,
// date descending, visiting every event exactly once.
type EventScanner struct {
	source   rollupdb.EventSource
	pageSize int
	logger   *slog.Logger
}

// NewEventScanner creates a scanner over the given source. pageSize <= 0
// selects the default.
func NewEventScanner(source rollupdb.EventSource, pageSize int, logger *slog.Logger) *EventScanner {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &EventScanner{source: source, pageSize: pageSize, logger: logger}
}

// Scan visits every event with date in [start, end]. Each page request
// passes the previous page's cursor; the scan ends on an empty page.
// A query error aborts the scan — each run is a full rescan, so no cursor
// state is checkpointed. A visit error also aborts.
func (s *EventScanner) Scan(ctx context.Context, start, end string, visit func(rolluptypes.Event) error) error {
	var cursor rollupdb.Cursor
	pages := 0

	for {
		page, err := s.source.QueryEvents(ctx, start, end, cursor, s.pageSize)
		if err != nil {
			return fmt.Errorf("event scan aborted on page %d: %w", pages+1, err)
		}
		if len(page.Events) == 0 {
			return nil
		}
		pages++

		s.logger.DebugContext(ctx, "Scanned event page",
			attr.Int("page", pages),
			attr.Int("events", len(page.Events)),
		)

		for _, event := range page.Events {
			if err := visit(event); err != nil {
				return err
			}
		}
		cursor = page.Next
	}
}
