package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
)

type fakeLister struct {
	events []*models.Event
	err    error
	days   []time.Time
}

func (f *fakeLister) ListPastDeadline(ctx context.Context, day time.Time) ([]*models.Event, error) {
	f.days = append(f.days, day)
	return f.events, f.err
}

type fakeCloser struct {
	mu     sync.Mutex
	errs   map[uuid.UUID]error
	closed []uuid.UUID
}

func (f *fakeCloser) CloseApplications(ctx context.Context, eventID, organizerID uuid.UUID) (*models.CloseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[eventID]; err != nil {
		return nil, err
	}
	f.closed = append(f.closed, eventID)
	return &models.CloseResult{EventID: eventID, ApplicationCount: 2}, nil
}

func (f *fakeCloser) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.closed)
}

func event() *models.Event {
	return &models.Event{ID: uuid.New(), OrganizerID: uuid.New()}
}

func TestRunOnce_ClosesEveryPastDeadlineEvent(t *testing.T) {
	ok, already, broken := event(), event(), event()
	lister := &fakeLister{events: []*models.Event{ok, already, broken}}
	closer := &fakeCloser{errs: map[uuid.UUID]error{
		already.ID: apperrors.ErrApplicationsClosed,
		broken.ID:  errors.New("export unavailable"),
	}}

	d := NewDeadlineCloser(lister, closer, zerolog.Nop())
	d.now = func() time.Time { return time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC) }

	summary, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Closed: 1, Skipped: 1, Failed: 1}, summary)
	assert.Equal(t, []uuid.UUID{ok.ID}, closer.closed)
	require.Len(t, lister.days, 1)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), lister.days[0])
}

func TestRunOnce_ListFailure(t *testing.T) {
	d := NewDeadlineCloser(&fakeLister{err: errors.New("db down")}, &fakeCloser{}, zerolog.Nop())
	_, err := d.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	d := NewDeadlineCloser(&fakeLister{}, &fakeCloser{}, zerolog.Nop())
	assert.Error(t, d.Start("not a schedule"))
	d.Stop(context.Background())
}

func TestStart_RunsOnSchedule(t *testing.T) {
	closer := &fakeCloser{}
	d := NewDeadlineCloser(&fakeLister{events: []*models.Event{event()}}, closer, zerolog.Nop())
	require.NoError(t, d.Start("@every 1s"))

	assert.Eventually(t, func() bool { return closer.count() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Stop(ctx)
}
