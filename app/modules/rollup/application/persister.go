package rollupservice

import (
	"context"
	"fmt"
	"log/slog"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// BatchPersister flushes the final accumulator contents to the rollup store
// in size-bounded atomic chunks.
type BatchPersister struct {
	writer rollupdb.ChunkedWriter
	logger *slog.Logger
}

// NewBatchPersister creates a persister over the given writer.
func NewBatchPersister(writer rollupdb.ChunkedWriter, logger *slog.Logger) *BatchPersister {
	return &BatchPersister{writer: writer, logger: logger}
}

// Persist writes every record as a full-document overwrite, grouped into
// chunks of at most the writer's maximum, committing the final partial
// chunk after the loop. A commit error propagates immediately; chunks
// already committed stay committed. onChunk (optional) is invoked after
// each commit with the chunk size and the running committed total.
// Returns the total number of documents written.
func (p *BatchPersister) Persist(
	ctx context.Context,
	windowLabel string,
	participants map[string]*rolluptypes.ParticipantRecord,
	gyms map[string]*rolluptypes.GymRecord,
	onChunk func(chunkSize, committed int),
) (int, error) {
	writes := make([]rollupdb.RollupWrite, 0, len(participants)+len(gyms))
	for key, record := range participants {
		writes = append(writes, rollupdb.RollupWrite{
			Kind:        rollupdb.KindParticipant,
			WindowLabel: windowLabel,
			Key:         key,
			Document:    *record,
		})
	}
	for slug, record := range gyms {
		writes = append(writes, rollupdb.RollupWrite{
			Kind:        rollupdb.KindGym,
			WindowLabel: windowLabel,
			Key:         slug,
			Document:    *record,
		})
	}

	maxChunk := p.writer.MaxChunkSize()
	committed := 0
	for start := 0; start < len(writes); start += maxChunk {
		end := min(start+maxChunk, len(writes))
		chunk := writes[start:end]

		if err := p.writer.Commit(ctx, chunk); err != nil {
			return committed, fmt.Errorf("failed to persist rollup chunk (%d committed so far): %w", committed, err)
		}
		committed += len(chunk)

		p.logger.InfoContext(ctx, "Committed rollup chunk",
			attr.String("window", windowLabel),
			attr.Int("chunk_size", len(chunk)),
			attr.Int("committed", committed),
			attr.Int("total", len(writes)),
		)
		if onChunk != nil {
			onChunk(len(chunk), committed)
		}
	}
	return committed, nil
}
