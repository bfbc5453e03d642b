package rollupdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
	"github.com/uptrace/bun"
)

// EventSourceImpl implements EventSource over Postgres.
type EventSourceImpl struct {
	DB *bun.DB
}

// QueryEvents pages through the event collection date-descending using a
// keyset cursor on (date, id). A failed query aborts the whole run upstream,
// so no cursor state is kept here.
func (s *EventSourceImpl) QueryEvents(ctx context.Context, start, end string, cursor Cursor, limit int) (EventPage, error) {
	var models []EventModel

	q := s.DB.NewSelect().
		Model(&models).
		Where("date >= ?", start).
		Where("date <= ?", end).
		OrderExpr("date DESC, id DESC").
		Limit(limit)

	if !cursor.IsZero() {
		q = q.Where("(date, id) < (?, ?)", cursor.LastDate, cursor.LastID)
	}

	if err := q.Scan(ctx); err != nil {
		return EventPage{}, fmt.Errorf("failed to query events [%s, %s]: %w", start, end, err)
	}

	page := EventPage{Events: make([]rolluptypes.Event, 0, len(models))}
	for _, m := range models {
		page.Events = append(page.Events, rolluptypes.Event{
			ID:        m.ID,
			Name:      m.Name,
			Date:      m.Date,
			Promotion: m.Promotion,
		})
	}
	if len(models) > 0 {
		last := models[len(models)-1]
		page.Next = Cursor{LastDate: last.Date, LastID: last.ID}
	}
	return page, nil
}

// FetchResults returns the event's nested results document, or
// ErrResultsNotFound when the row is absent.
func (s *EventSourceImpl) FetchResults(ctx context.Context, eventID string) ([]rolluptypes.ResultEntry, error) {
	var model EventResultsModel
	err := s.DB.NewSelect().
		Model(&model).
		Where("event_id = ?", eventID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultsNotFound
		}
		return nil, fmt.Errorf("failed to fetch results for event %s: %w", eventID, err)
	}
	return model.Entries, nil
}

// FetchLegacyParticipants enumerates the flat per-participant rows for one
// event, in insertion order.
func (s *EventSourceImpl) FetchLegacyParticipants(ctx context.Context, eventID string) ([]rolluptypes.LegacyParticipant, error) {
	var models []EventParticipantModel
	err := s.DB.NewSelect().
		Model(&models).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legacy participants for event %s: %w", eventID, err)
	}

	participants := make([]rolluptypes.LegacyParticipant, 0, len(models))
	for _, m := range models {
		participants = append(participants, rolluptypes.LegacyParticipant{
			FighterID:   m.FighterID,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			DateOfBirth: m.DateOfBirth,
			Age:         m.Age,
			Gym:         m.Gym,
			Contact:     m.Contact,
			Result:      m.Result,
			BoutType:    m.BoutType,
			WeightClass: m.WeightClass,
			OpponentID:  m.OpponentID,
			Skills:      m.Skills,
		})
	}
	return participants, nil
}
