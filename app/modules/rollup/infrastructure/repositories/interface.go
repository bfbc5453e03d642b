package rollupdb

import (
	"context"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
)

// Cursor is the continuation token for the paginated event scan. Callers
// treat it as opaque: the zero value starts a scan and each page carries
// the cursor for the next one.
type Cursor struct {
	LastDate string `json:"last_date"`
	LastID   string `json:"last_id"`
}

// IsZero reports whether the cursor is the start-of-scan token.
func (c Cursor) IsZero() bool {
	return c.LastDate == "" && c.LastID == ""
}

// EventPage is one page of the event scan.
type EventPage struct {
	Events []rolluptypes.Event
	Next   Cursor
}

// EventSource is the read side the rollup pipeline consumes: a paginated
// event scan plus per-event result fetches.
type EventSource interface {
	// QueryEvents returns events with date in [start, end] (inclusive,
	// YYYY-MM-DD lexical comparison), ordered date descending, at most
	// limit per page. An empty Events slice means the scan is done.
	QueryEvents(ctx context.Context, start, end string, cursor Cursor, limit int) (EventPage, error)

	// FetchResults returns the event's nested results document.
	// Returns ErrResultsNotFound when the document does not exist.
	FetchResults(ctx context.Context, eventID string) ([]rolluptypes.ResultEntry, error)

	// FetchLegacyParticipants enumerates the flat per-participant rows
	// for events predating the nested results document.
	FetchLegacyParticipants(ctx context.Context, eventID string) ([]rolluptypes.LegacyParticipant, error)
}

// RollupKind discriminates the two rollup document families.
type RollupKind string

const (
	KindParticipant RollupKind = "participant"
	KindGym         RollupKind = "gym"
)

// RollupWrite is one full-document overwrite destined for the rollup store.
type RollupWrite struct {
	Kind        RollupKind
	WindowLabel string
	Key         string
	Document    any
}

// ChunkedWriter commits rollup writes in bounded atomic chunks. Each Commit
// call is one atomic unit; the pipeline never passes a chunk larger than
// MaxChunkSize.
type ChunkedWriter interface {
	Commit(ctx context.Context, chunk []RollupWrite) error
	MaxChunkSize() int
}
