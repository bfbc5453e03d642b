package rollupservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// windowLabelPattern restricts run windows to calendar years.
var windowLabelPattern = regexp.MustCompile(`^\d{4}$`)

// maxSkippedGymSamples bounds the gym names quoted in the end-of-run warning.
const maxSkippedGymSamples = 5

// Run rebuilds every fighter and gym rollup for the window from scratch:
// scan events date-descending, fold each event's results into the in-memory
// aggregates, then flush the aggregates as chunked full-overwrite batches.
// Re-running on unchanged input converges to identical documents.
func (s *RollupService) Run(ctx context.Context, windowLabel string, onProgress ProgressFunc) (rolluptypes.RunSummary, error) {
	if !windowLabelPattern.MatchString(windowLabel) {
		return rolluptypes.RunSummary{WindowLabel: windowLabel},
			fmt.Errorf("invalid window label %q: expected a 4-digit year", windowLabel)
	}

	return s.withTelemetry(ctx, "RollupRun", windowLabel, func(ctx context.Context) (rolluptypes.RunSummary, error) {
		s.runMu.Lock()
		defer s.runMu.Unlock()

		start := windowLabel + "-01-01"
		end := windowLabel + "-12-31"

		emitter := &progressEmitter{
			windowLabel: windowLabel,
			onProgress:  onProgress,
			publisher:   s.publisher,
			logger:      s.logger,
		}

		scanner := NewEventScanner(s.source, s.pageSize, s.logger)
		extractor := NewResultExtractor(s.source, s.logger)
		accumulator := NewRecordAccumulator()

		eventsProcessed := 0
		eventsSkipped := 0

		err := scanner.Scan(ctx, start, end, func(event rolluptypes.Event) error {
			entries, extractErr := extractor.Extract(ctx, event)
			if extractErr != nil {
				// A single event's fetch failure never aborts the run.
				eventsSkipped++
				s.metrics.RecordEventSkipped(ctx)
				s.logger.ErrorContext(ctx, "Skipping event after result fetch failure",
					attr.String("event_id", event.ID),
					attr.String("event_name", event.Name),
					attr.Error(extractErr),
				)
				emitter.Emit(ctx, fmt.Sprintf("Skipped event %s (%s): results unavailable", event.Name, event.Date))
				return nil
			}

			for _, entry := range entries {
				accumulator.Fold(event, entry)
			}
			eventsProcessed++
			s.metrics.RecordEventProcessed(ctx)
			emitter.Emit(ctx, fmt.Sprintf("Processed event %s (%s): %d results", event.Name, event.Date, len(entries)))
			return nil
		})
		if err != nil {
			return rolluptypes.RunSummary{
				WindowLabel:     windowLabel,
				EventsProcessed: eventsProcessed,
				EventsSkipped:   eventsSkipped,
				Message:         "run aborted during event scan",
			}, err
		}

		participants := accumulator.Participants()
		gyms := accumulator.Gyms()

		persister := NewBatchPersister(s.writer, s.logger)
		total, err := persister.Persist(ctx, windowLabel, participants, gyms, func(chunkSize, committed int) {
			s.metrics.RecordChunkCommitted(ctx, chunkSize)
			emitter.Emit(ctx, fmt.Sprintf("Committed chunk of %d (%d/%d records)", chunkSize, committed, len(participants)+len(gyms)))
		})
		if err != nil {
			return rolluptypes.RunSummary{
				WindowLabel:     windowLabel,
				TotalRecords:    total,
				Participants:    len(participants),
				Gyms:            len(gyms),
				EventsProcessed: eventsProcessed,
				EventsSkipped:   eventsSkipped,
				Message:         "run aborted during persistence",
			}, err
		}

		skippedGyms := accumulator.SkippedGymNames()
		if len(skippedGyms) > 0 {
			samples := skippedGyms
			if len(samples) > maxSkippedGymSamples {
				samples = samples[:maxSkippedGymSamples]
			}
			emitter.Emit(ctx, fmt.Sprintf("Warning: %d gym name(s) could not be normalized and were skipped (e.g. %s)",
				len(skippedGyms), strings.Join(samples, ", ")))
		}

		summary := rolluptypes.RunSummary{
			Success:         true,
			WindowLabel:     windowLabel,
			TotalRecords:    total,
			Participants:    len(participants),
			Gyms:            len(gyms),
			EventsProcessed: eventsProcessed,
			EventsSkipped:   eventsSkipped,
			EntriesSkipped:  accumulator.SkippedEntries(),
			SkippedGyms:     len(skippedGyms),
			Message: fmt.Sprintf("Rollup complete for %s: %d records (%d fighters, %d gyms) from %d events (%d skipped)",
				windowLabel, total, len(participants), len(gyms), eventsProcessed, eventsSkipped),
		}
		emitter.Emit(ctx, summary.Message)
		return summary, nil
	})
}
