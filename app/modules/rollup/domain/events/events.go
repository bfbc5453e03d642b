package rollupevents

import (
	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
)

// Subjects for the rollup module.
const (
	// RunRequestedV1 asks the service to rebuild one window's rollups.
	RunRequestedV1 = "rollup.run.requested.v1"

	// RunCompletedV1 carries the summary of a finished run.
	RunCompletedV1 = "rollup.run.completed.v1"

	// RunFailedV1 reports a run aborted by a fatal error.
	RunFailedV1 = "rollup.run.failed.v1"
)

// RunRequestedPayloadV1 is the payload of RunRequestedV1.
type RunRequestedPayloadV1 struct {
	WindowLabel string `json:"window_label"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// RunCompletedPayloadV1 is the payload of RunCompletedV1.
type RunCompletedPayloadV1 struct {
	Summary rolluptypes.RunSummary `json:"summary"`
}

// RunFailedPayloadV1 is the payload of RunFailedV1.
type RunFailedPayloadV1 struct {
	WindowLabel string `json:"window_label"`
	Reason      string `json:"reason"`
}
