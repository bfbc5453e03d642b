package rollupservice

import (
	"context"
	"sort"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
)

// ------------------------
// Fake Event Source
// ------------------------

// FakeEventSource serves a fixed event set with in-memory pagination,
// programmable per-method overrides, and a call trace.
type FakeEventSource struct {
	Events  []rolluptypes.Event
	Results map[string][]rolluptypes.ResultEntry
	Legacy  map[string][]rolluptypes.LegacyParticipant

	QueryEventsFunc             func(ctx context.Context, start, end string, cursor rollupdb.Cursor, limit int) (rollupdb.EventPage, error)
	FetchResultsFunc            func(ctx context.Context, eventID string) ([]rolluptypes.ResultEntry, error)
	FetchLegacyParticipantsFunc func(ctx context.Context, eventID string) ([]rolluptypes.LegacyParticipant, error)

	trace []string
}

func NewFakeEventSource() *FakeEventSource {
	return &FakeEventSource{
		Results: map[string][]rolluptypes.ResultEntry{},
		Legacy:  map[string][]rolluptypes.LegacyParticipant{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeEventSource) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeEventSource) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeEventSource) QueryEvents(ctx context.Context, start, end string, cursor rollupdb.Cursor, limit int) (rollupdb.EventPage, error) {
	f.record("QueryEvents")
	if f.QueryEventsFunc != nil {
		return f.QueryEventsFunc(ctx, start, end, cursor, limit)
	}

	// Date-descending window filter, then keyset continuation.
	matching := make([]rolluptypes.Event, 0, len(f.Events))
	for _, e := range f.Events {
		if e.Date >= start && e.Date <= end {
			matching = append(matching, e)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].Date != matching[j].Date {
			return matching[i].Date > matching[j].Date
		}
		return matching[i].ID > matching[j].ID
	})

	startIdx := 0
	if !cursor.IsZero() {
		for i, e := range matching {
			if e.Date < cursor.LastDate || (e.Date == cursor.LastDate && e.ID < cursor.LastID) {
				startIdx = i
				break
			}
			startIdx = len(matching)
		}
	}

	endIdx := min(startIdx+limit, len(matching))
	page := rollupdb.EventPage{Events: matching[startIdx:endIdx]}
	if len(page.Events) > 0 {
		last := page.Events[len(page.Events)-1]
		page.Next = rollupdb.Cursor{LastDate: last.Date, LastID: last.ID}
	}
	return page, nil
}

func (f *FakeEventSource) FetchResults(ctx context.Context, eventID string) ([]rolluptypes.ResultEntry, error) {
	f.record("FetchResults:" + eventID)
	if f.FetchResultsFunc != nil {
		return f.FetchResultsFunc(ctx, eventID)
	}
	entries, ok := f.Results[eventID]
	if !ok {
		return nil, rollupdb.ErrResultsNotFound
	}
	return entries, nil
}

func (f *FakeEventSource) FetchLegacyParticipants(ctx context.Context, eventID string) ([]rolluptypes.LegacyParticipant, error) {
	f.record("FetchLegacyParticipants:" + eventID)
	if f.FetchLegacyParticipantsFunc != nil {
		return f.FetchLegacyParticipantsFunc(ctx, eventID)
	}
	return f.Legacy[eventID], nil
}

// ------------------------
// Fake Chunked Writer
// ------------------------

// FakeChunkedWriter records committed chunks in memory and applies them to a
// per-key document store, mirroring the full-overwrite semantics of the real
// writer.
type FakeChunkedWriter struct {
	ChunkSize  int
	CommitFunc func(ctx context.Context, chunk []rollupdb.RollupWrite) error

	Chunks    [][]rollupdb.RollupWrite
	Documents map[string]any // "<kind>/<window>/<key>" -> document
}

func NewFakeChunkedWriter(chunkSize int) *FakeChunkedWriter {
	return &FakeChunkedWriter{
		ChunkSize: chunkSize,
		Documents: map[string]any{},
	}
}

func (f *FakeChunkedWriter) MaxChunkSize() int {
	return f.ChunkSize
}

func (f *FakeChunkedWriter) Commit(ctx context.Context, chunk []rollupdb.RollupWrite) error {
	if f.CommitFunc != nil {
		if err := f.CommitFunc(ctx, chunk); err != nil {
			return err
		}
	}
	copied := make([]rollupdb.RollupWrite, len(chunk))
	copy(copied, chunk)
	f.Chunks = append(f.Chunks, copied)
	for _, w := range chunk {
		f.Documents[string(w.Kind)+"/"+w.WindowLabel+"/"+w.Key] = w.Document
	}
	return nil
}
