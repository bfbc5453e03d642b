package rollupmigrations

import (
	"context"
	"fmt"

	rollupdb "github.com/ringside-labs/fightstats/app/modules/rollup/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rollup tables...")

		models := []any{
			(*rollupdb.EventModel)(nil),
			(*rollupdb.EventResultsModel)(nil),
			(*rollupdb.EventParticipantModel)(nil),
			(*rollupdb.ParticipantRollupModel)(nil),
			(*rollupdb.GymRollupModel)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		// Keyset pagination for the event scan orders by (date desc, id desc).
		if _, err := db.NewCreateIndex().
			Model((*rollupdb.EventModel)(nil)).
			Index("idx_events_date_id").
			Column("date", "id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*rollupdb.EventParticipantModel)(nil)).
			Index("idx_event_participants_event_id").
			Column("event_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Rollup tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rollup tables...")

		models := []any{
			(*rollupdb.GymRollupModel)(nil),
			(*rollupdb.ParticipantRollupModel)(nil),
			(*rollupdb.EventParticipantModel)(nil),
			(*rollupdb.EventResultsModel)(nil),
			(*rollupdb.EventModel)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Rollup tables dropped successfully!")
		return nil
	})
}
