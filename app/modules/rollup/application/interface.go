package rollupservice

import (
	"context"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
)

// ProgressFunc receives human-readable status lines as a run proceeds.
// Calls are synchronous; callers needing asynchronous delivery wrap it
// themselves.
type ProgressFunc func(message string)

// Service is the rollup pipeline surface consumed by handlers and the API.
type Service interface {
	// Run rebuilds all fighter and gym rollups for the window from scratch
	// and persists them. onProgress may be nil.
	Run(ctx context.Context, windowLabel string, onProgress ProgressFunc) (rolluptypes.RunSummary, error)
}
