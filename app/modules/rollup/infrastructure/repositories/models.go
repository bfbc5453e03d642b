package rollupdb

import (
	"time"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	"github.com/uptrace/bun"
)

// EventModel is one event in the scan collection.
type EventModel struct {
	bun.BaseModel `bun:"table:events"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name,notnull"`
	Date      string `bun:"date,notnull"` // YYYY-MM-DD
	Promotion string `bun:"promotion"`
}

// EventResultsModel is the nested results document for one event: a single
// row holding the full entry array.
type EventResultsModel struct {
	bun.BaseModel `bun:"table:event_results"`

	EventID string                    `bun:"event_id,pk"`
	Entries []rolluptypes.ResultEntry `bun:"entries,type:jsonb"`
}

// EventParticipantModel is one row of the legacy flat per-participant
// sub-collection, kept for events created before the results document.
type EventParticipantModel struct {
	bun.BaseModel `bun:"table:event_participants"`

	ID          int64                   `bun:"id,pk,autoincrement"`
	EventID     string                  `bun:"event_id,notnull"`
	FighterID   string                  `bun:"fighter_id"`
	FirstName   string                  `bun:"first_name"`
	LastName    string                  `bun:"last_name"`
	DateOfBirth string                  `bun:"date_of_birth"`
	Age         int                     `bun:"age"`
	Gym         string                  `bun:"gym"`
	Contact     string                  `bun:"contact"`
	Result      string                  `bun:"result"`
	BoutType    string                  `bun:"bout_type"`
	WeightClass int                     `bun:"weight_class"`
	OpponentID  string                  `bun:"opponent_id"`
	Skills      rolluptypes.SkillTotals `bun:"skills,type:jsonb"`
}

// ParticipantRollupModel is one persisted fighter rollup document, keyed by
// (window_label, id) and replaced wholesale on every run.
type ParticipantRollupModel struct {
	bun.BaseModel `bun:"table:participant_rollups"`

	WindowLabel string                        `bun:"window_label,pk"`
	ID          string                        `bun:"id,pk"`
	Document    rolluptypes.ParticipantRecord `bun:"document,type:jsonb"`
	UpdatedAt   time.Time                     `bun:"updated_at,notnull"`
}

// GymRollupModel mirrors ParticipantRollupModel for gym documents.
type GymRollupModel struct {
	bun.BaseModel `bun:"table:gym_rollups"`

	WindowLabel string                `bun:"window_label,pk"`
	ID          string                `bun:"id,pk"`
	Document    rolluptypes.GymRecord `bun:"document,type:jsonb"`
	UpdatedAt   time.Time             `bun:"updated_at,notnull"`
}
