package scheduler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	rollupevents "github.com/ringside-labs/fightstats/app/modules/rollup/domain/events"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
	"github.com/robfig/cron/v3"
)

// Scheduler publishes a run-requested event for the current year on a cron
// schedule, keeping the rollups fresh without manual triggers.
type Scheduler struct {
	cron      *cron.Cron
	publisher message.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler creates a Scheduler with the given cron expression. An empty
// expression returns a nil Scheduler and no error: scheduling is optional.
func NewScheduler(schedule string, publisher message.Publisher, logger *slog.Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}

	s := &Scheduler{
		cron:      cron.New(),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.publishCurrentYearRun); err != nil {
		return nil, fmt.Errorf("invalid rollup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins scheduled publishing.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Rollup scheduler started")
}

// Stop halts the cron runner and waits for any in-flight job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Rollup scheduler stopped")
}

func (s *Scheduler) publishCurrentYearRun() {
	windowLabel := s.now().UTC().Format("2006")

	payload, err := json.Marshal(rollupevents.RunRequestedPayloadV1{
		WindowLabel: windowLabel,
		RequestedBy: "scheduler",
	})
	if err != nil {
		s.logger.Error("Failed to marshal scheduled run request", attr.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	wmiddleware.SetCorrelationID(uuid.New().String(), msg)

	if err := s.publisher.Publish(rollupevents.RunRequestedV1, msg); err != nil {
		s.logger.Error("Failed to publish scheduled run request",
			attr.String("window_label", windowLabel),
			attr.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled rollup run requested", attr.String("window_label", windowLabel))
}
