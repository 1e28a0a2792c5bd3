package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/helpers"
	"github.com/yigit/stallhub/internal/pkg/metrics"
)

// DefaultDeadlineCloserSpec runs the closer once an hour
const DefaultDeadlineCloserSpec = "@every 1h"

const deadlineCloserJob = "deadline_closer"

// PastDeadlineLister lists events that are still open after their deadline
type PastDeadlineLister interface {
	ListPastDeadline(ctx context.Context, day time.Time) ([]*models.Event, error)
}

// Closer closes applications on behalf of an event's organizer
type Closer interface {
	CloseApplications(ctx context.Context, eventID, organizerID uuid.UUID) (*models.CloseResult, error)
}

// RunSummary counts what one pass of the closer did
type RunSummary struct {
	Closed  int
	Skipped int
	Failed  int
}

// DeadlineCloser closes applications for events whose deadline has passed.
// A failed close leaves the event open so the next tick retries it.
type DeadlineCloser struct {
	events  PastDeadlineLister
	closer  Closer
	logger  zerolog.Logger
	timeout time.Duration
	now     func() time.Time

	cron *cron.Cron
}

// NewDeadlineCloser creates a new DeadlineCloser
func NewDeadlineCloser(events PastDeadlineLister, closer Closer, logger zerolog.Logger) *DeadlineCloser {
	return &DeadlineCloser{
		events:  events,
		closer:  closer,
		logger:  logger.With().Str("job", deadlineCloserJob).Logger(),
		timeout: 5 * time.Minute,
		now:     time.Now,
	}
}

// RunOnce performs a single pass over past-deadline events
func (d *DeadlineCloser) RunOnce(ctx context.Context) (RunSummary, error) {
	started := time.Now()
	var summary RunSummary

	events, err := d.events.ListPastDeadline(ctx, helpers.StartOfDay(d.now()))
	if err != nil {
		metrics.RecordJobRun(deadlineCloserJob, time.Since(started), false)
		return summary, fmt.Errorf("error listing past deadline events: %w", err)
	}

	for _, ev := range events {
		result, err := d.closer.CloseApplications(ctx, ev.ID, ev.OrganizerID)
		switch {
		case err == nil:
			summary.Closed++
			d.logger.Info().
				Str("eventID", ev.ID.String()).
				Int("applications", result.ApplicationCount).
				Msg("Closed applications after deadline")
		case errors.Is(err, apperrors.ErrApplicationsClosed):
			// closed by the organizer since the listing
			summary.Skipped++
		default:
			summary.Failed++
			d.logger.Error().Err(err).Str("eventID", ev.ID.String()).Msg("Failed to close applications after deadline")
		}
	}

	metrics.RecordJobRun(deadlineCloserJob, time.Since(started), summary.Failed == 0)
	return summary, nil
}

func (d *DeadlineCloser) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	summary, err := d.RunOnce(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Deadline closer run failed")
		return
	}
	d.logger.Debug().
		Int("closed", summary.Closed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Deadline closer run finished")
}

// Start schedules the closer. An empty spec uses DefaultDeadlineCloserSpec.
func (d *DeadlineCloser) Start(spec string) error {
	if spec == "" {
		spec = DefaultDeadlineCloserSpec
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, d.tick); err != nil {
		return fmt.Errorf("invalid deadline closer schedule %q: %w", spec, err)
	}
	d.cron = c
	c.Start()
	d.logger.Info().Str("schedule", spec).Msg("Deadline closer scheduled")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish or ctx to end
func (d *DeadlineCloser) Stop(ctx context.Context) {
	if d.cron == nil {
		return
	}
	select {
	case <-d.cron.Stop().Done():
	case <-ctx.Done():
		d.logger.Warn().Msg("Deadline closer did not stop before shutdown deadline")
	}
}
