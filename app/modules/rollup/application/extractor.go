package rollupservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// ResultExtractor produces the result entries for one event. The primary
// path is the nested results document; events predating it fall back to the
// flat per-participant rows, synthesized into the same entry shape.
type ResultExtractor struct {
	source rollupdb.EventSource
	logger *slog.Logger
}

// NewResultExtractor creates an extractor over the given source.
func NewResultExtractor(source rollupdb.EventSource, logger *slog.Logger) *ResultExtractor {
	return &ResultExtractor{source: source, logger: logger}
}

// Extract returns the event's result entries, or an empty slice when it has
// none. The fallback path engages only when the primary document is absent;
// any other fetch error is returned for the caller to skip the event on.
// Both paths normalize at this boundary: the accumulator only ever sees
// canonical results and bout types.
func (e *ResultExtractor) Extract(ctx context.Context, event rolluptypes.Event) ([]rolluptypes.ResultEntry, error) {
	entries, err := e.source.FetchResults(ctx, event.ID)
	if err == nil {
		return e.normalize(ctx, event, entries), nil
	}
	if !errors.Is(err, rollupdb.ErrResultsNotFound) {
		return nil, err
	}

	participants, err := e.source.FetchLegacyParticipants(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	entries = make([]rolluptypes.ResultEntry, 0, len(participants))
	for _, p := range participants {
		entry, ok := e.synthesize(ctx, event, p)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// normalize canonicalizes the entries of a results document. Documents store
// results in the same short and long encodings as the legacy rows ("W",
// "LOSS", ...), so each entry's result and bout type are re-parsed here;
// entries with an unknown result encoding are dropped, never counted.
func (e *ResultExtractor) normalize(ctx context.Context, event rolluptypes.Event, entries []rolluptypes.ResultEntry) []rolluptypes.ResultEntry {
	out := make([]rolluptypes.ResultEntry, 0, len(entries))
	for _, entry := range entries {
		result, err := rolluptypes.ParseFightResult(string(entry.Result))
		if err != nil {
			e.logger.WarnContext(ctx, "Skipping result entry with unknown result",
				attr.String("event_id", event.ID),
				attr.String("fighter_id", entry.FighterID),
				attr.String("result", string(entry.Result)),
				attr.Error(err),
			)
			continue
		}
		entry.Result = result
		entry.BoutType = normalizeBoutType(string(entry.BoutType))
		out = append(out, entry)
	}
	return out
}

// normalizeBoutType folds a free-form bout type onto the two known values;
// anything that is not a tournament bout is a regular one.
func normalizeBoutType(raw string) rolluptypes.BoutType {
	if strings.EqualFold(raw, string(rolluptypes.BoutTypeTournament)) {
		return rolluptypes.BoutTypeTournament
	}
	return rolluptypes.BoutTypeRegular
}

// synthesize converts one legacy row into the entry shape the accumulator
// consumes: names upper-cased, contact lower-cased, age derived from the
// date of birth when the stored age is absent or non-positive.
func (e *ResultExtractor) synthesize(ctx context.Context, event rolluptypes.Event, p rolluptypes.LegacyParticipant) (rolluptypes.ResultEntry, bool) {
	result, err := rolluptypes.ParseFightResult(p.Result)
	if err != nil {
		e.logger.WarnContext(ctx, "Skipping legacy participant with unknown result",
			attr.String("event_id", event.ID),
			attr.String("result", p.Result),
			attr.Error(err),
		)
		return rolluptypes.ResultEntry{}, false
	}

	age := p.Age
	if age <= 0 {
		age = rolluptypes.AgeOn(p.DateOfBirth, event.Date)
	}

	return rolluptypes.ResultEntry{
		FighterID:   p.FighterID,
		FirstName:   rolluptypes.NormalizeName(p.FirstName),
		LastName:    rolluptypes.NormalizeName(p.LastName),
		DateOfBirth: p.DateOfBirth,
		Age:         age,
		Gym:         p.Gym,
		Contact:     rolluptypes.NormalizeContact(p.Contact),
		Result:      result,
		BoutType:    normalizeBoutType(p.BoutType),
		WeightClass: p.WeightClass,
		OpponentID:  p.OpponentID,
		Skills:      p.Skills,
	}, true
}
