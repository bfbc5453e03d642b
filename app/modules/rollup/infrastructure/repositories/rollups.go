package rollupdb

import (
	"context"
	"fmt"
	"time"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	"github.com/uptrace/bun"
)

// DefaultMaxChunkSize matches the destination store's operations-per-commit
// limit.
const DefaultMaxChunkSize = 500

// RollupWriterImpl implements ChunkedWriter over Postgres. Each Commit runs
// inside one transaction, so a chunk either lands completely or not at all.
// Chunks already committed are never rolled back; re-running the pipeline
// overwrites them with identical documents.
type RollupWriterImpl struct {
	DB        *bun.DB
	ChunkSize int
}

// MaxChunkSize returns the configured operations-per-commit limit.
func (w *RollupWriterImpl) MaxChunkSize() int {
	if w.ChunkSize > 0 {
		return w.ChunkSize
	}
	return DefaultMaxChunkSize
}

// Commit writes one chunk of rollup documents as full overwrites keyed by
// (window_label, id), atomically.
func (w *RollupWriterImpl) Commit(ctx context.Context, chunk []RollupWrite) error {
	if len(chunk) == 0 {
		return nil
	}
	if len(chunk) > w.MaxChunkSize() {
		return fmt.Errorf("%w: %d > %d", ErrChunkTooLarge, len(chunk), w.MaxChunkSize())
	}

	now := time.Now().UTC()

	var participants []ParticipantRollupModel
	var gyms []GymRollupModel
	for _, write := range chunk {
		switch write.Kind {
		case KindParticipant:
			doc, ok := write.Document.(rolluptypes.ParticipantRecord)
			if !ok {
				return fmt.Errorf("participant write %s has document type %T", write.Key, write.Document)
			}
			participants = append(participants, ParticipantRollupModel{
				WindowLabel: write.WindowLabel,
				ID:          write.Key,
				Document:    doc,
				UpdatedAt:   now,
			})
		case KindGym:
			doc, ok := write.Document.(rolluptypes.GymRecord)
			if !ok {
				return fmt.Errorf("gym write %s has document type %T", write.Key, write.Document)
			}
			gyms = append(gyms, GymRollupModel{
				WindowLabel: write.WindowLabel,
				ID:          write.Key,
				Document:    doc,
				UpdatedAt:   now,
			})
		default:
			return fmt.Errorf("unknown rollup kind %q for key %s", write.Kind, write.Key)
		}
	}

	err := w.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(participants) > 0 {
			if _, err := tx.NewInsert().
				Model(&participants).
				On("CONFLICT (window_label, id) DO UPDATE").
				Set("document = EXCLUDED.document, updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to upsert participant rollups: %w", err)
			}
		}
		if len(gyms) > 0 {
			if _, err := tx.NewInsert().
				Model(&gyms).
				On("CONFLICT (window_label, id) DO UPDATE").
				Set("document = EXCLUDED.document, updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to upsert gym rollups: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit rollup chunk of %d: %w", len(chunk), err)
	}
	return nil
}
