package rollupdb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level signals; the service layer decides whether
// they are fatal for the run.
var (
	// ErrResultsNotFound indicates an event has no nested results document.
	// The extractor falls back to the legacy participant rows on this error.
	ErrResultsNotFound = errors.New("event results document not found")

	// ErrChunkTooLarge indicates a caller passed a chunk exceeding the
	// writer's configured maximum. The pipeline never does this; the check
	// guards direct callers.
	ErrChunkTooLarge = errors.New("write chunk exceeds maximum size")
)
