package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
)

const (
	lockEventSQL         = `SELECT approval_status, is_application_closed, application_end_date FROM events WHERE id = \$1 FOR UPDATE`
	existsApplicationSQL = `SELECT 1 FROM event_applications WHERE event_id = \$1 AND exhibitor_id = \$2`
	insertApplicationSQL = `INSERT INTO event_applications \(exhibitor_id,event_id,application_status\) VALUES \(\$1,\$2,\$3\) RETURNING`
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

type applyCase struct {
	mock        pgxmock.PgxPoolIface
	repo        *ApplicationRepository
	exhibitorID uuid.UUID
	eventID     uuid.UUID
	today       time.Time
}

func newApplyCase(t *testing.T) *applyCase {
	mock := newMockPool(t)
	return &applyCase{
		mock:        mock,
		repo:        NewApplicationRepository(mock),
		exhibitorID: uuid.New(),
		eventID:     uuid.New(),
		today:       time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
	}
}

func (c *applyCase) expectLock(approval string, closed bool, deadline *time.Time) {
	c.mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	c.mock.ExpectQuery(lockEventSQL).
		WithArgs(c.eventID).
		WillReturnRows(pgxmock.NewRows([]string{"approval_status", "is_application_closed", "application_end_date"}).
			AddRow(approval, closed, deadline))
}

func (c *applyCase) expectExists(exists bool) {
	c.mock.ExpectQuery(existsApplicationSQL).
		WithArgs(c.eventID, c.exhibitorID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func (c *applyCase) create() (*models.Application, error) {
	return c.repo.CreatePending(context.Background(), c.exhibitorID, c.eventID, c.today)
}

func TestCreatePendingLocksEventAndInserts(t *testing.T) {
	c := newApplyCase(t)
	deadline := c.today
	appID := uuid.New()
	now := time.Now().UTC()

	c.expectLock(models.EventApprovalApproved, false, &deadline)
	c.expectExists(false)
	c.mock.ExpectQuery(insertApplicationSQL).
		WithArgs(c.exhibitorID, c.eventID, models.ApplicationStatusPending).
		WillReturnRows(pgxmock.NewRows(applicationColumns).
			AddRow(appID, c.exhibitorID, c.eventID, models.ApplicationStatusPending, now, now))
	c.mock.ExpectCommit()

	app, err := c.create()
	require.NoError(t, err)
	assert.Equal(t, appID, app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
}

func TestCreatePendingRecheckFindsExistingRow(t *testing.T) {
	c := newApplyCase(t)
	c.expectLock(models.EventApprovalApproved, false, nil)
	c.expectExists(true)
	c.mock.ExpectRollback()

	_, err := c.create()
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
}

func TestCreatePendingMapsInsertViolations(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
		want  error
	}{
		{"unique pair", &pgconn.PgError{Code: "23505", ConstraintName: ApplicationUniqueConstraint}, apperrors.ErrDuplicateApplication},
		{"missing exhibitor", &pgconn.PgError{Code: "23503", ConstraintName: "event_applications_exhibitor_id_fkey"}, apperrors.ErrExhibitorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newApplyCase(t)
			c.expectLock(models.EventApprovalApproved, false, nil)
			c.expectExists(false)
			c.mock.ExpectQuery(insertApplicationSQL).
				WithArgs(c.exhibitorID, c.eventID, models.ApplicationStatusPending).
				WillReturnError(tt.pgErr)
			c.mock.ExpectRollback()

			_, err := c.create()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreatePendingEventGuards(t *testing.T) {
	yesterday := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		approval string
		closed   bool
		deadline *time.Time
		want     error
	}{
		{"pending approval", models.EventApprovalPending, false, nil, apperrors.ErrEventNotFound},
		{"rejected", models.EventApprovalRejected, false, nil, apperrors.ErrEventNotFound},
		{"closed", models.EventApprovalApproved, true, nil, apperrors.ErrApplicationsClosed},
		{"deadline passed", models.EventApprovalApproved, false, &yesterday, apperrors.ErrApplicationsClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newApplyCase(t)
			c.expectLock(tt.approval, tt.closed, tt.deadline)
			c.mock.ExpectRollback()

			_, err := c.create()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreatePendingMissingEvent(t *testing.T) {
	c := newApplyCase(t)
	c.mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	c.mock.ExpectQuery(lockEventSQL).
		WithArgs(c.eventID).
		WillReturnError(pgx.ErrNoRows)
	c.mock.ExpectRollback()

	_, err := c.create()
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestUpdateStatusIfPendingIsConditional(t *testing.T) {
	mock := newMockPool(t)
	repo := NewApplicationRepository(mock)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE event_applications SET application_status = \$1, updated_at = NOW\(\) WHERE application_status = \$2 AND id = \$3 RETURNING`).
		WithArgs(models.ApplicationStatusApproved, models.ApplicationStatusPending, id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateStatusIfPending(context.Background(), id, models.ApplicationStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}
