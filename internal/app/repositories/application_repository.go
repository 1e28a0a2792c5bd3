package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/dberrors"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// ApplicationUniqueConstraint guards one application per (exhibitor, event)
const ApplicationUniqueConstraint = "event_applications_exhibitor_event_key"

var applicationColumns = []string{
	"id", "exhibitor_id", "event_id", "application_status", "applied_at", "updated_at",
}

// ApplicationRepository handles event application database operations
type ApplicationRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	a := &models.Application{}
	if err := row.Scan(&a.ID, &a.ExhibitorID, &a.EventID, &a.Status, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("event_applications").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get application SQL")
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	a, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Str("applicationID", id.String()).Msg("Error scanning application row")
		return nil, fmt.Errorf("error getting application: %w", err)
	}
	return a, nil
}

// ExistsForExhibitor reports whether the exhibitor already applied to the event
func (r *ApplicationRepository) ExistsForExhibitor(ctx context.Context, exhibitorID, eventID uuid.UUID) (bool, error) {
	return r.exists(ctx, r.db, exhibitorID, eventID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *ApplicationRepository) exists(ctx context.Context, q queryRower, exhibitorID, eventID uuid.UUID) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("event_applications").
		Where(squirrel.Eq{"exhibitor_id": exhibitorID, "event_id": eventID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build application exists query: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking existing application: %w", err)
	}
	return exists, nil
}

// CreatePending inserts a pending application. The event row is locked for
// the duration of the transaction so the existence re-check and the insert
// cannot interleave with a concurrent apply for the same pair. A unique
// violation that still slips through maps to ErrDuplicateApplication. Events
// that are not approved are reported as ErrEventNotFound, as on the store side.
func (r *ApplicationRepository) CreatePending(ctx context.Context, exhibitorID, eventID uuid.UUID, today time.Time) (*models.Application, error) {
	var created *models.Application

	err := withTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := r.sb.Select("approval_status", "is_application_closed", "application_end_date").
			From("events").
			Where(squirrel.Eq{"id": eventID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock event query: %w", err)
		}

		event := models.Event{ID: eventID}
		err = tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&event.ApprovalStatus, &event.IsApplicationClosed, &event.ApplicationEndDate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return fmt.Errorf("error locking event: %w", err)
		}
		if !event.IsApproved() {
			return apperrors.ErrEventNotFound
		}
		if !event.AcceptsApplications(today) {
			return apperrors.ErrApplicationsClosed
		}

		exists, err := r.exists(ctx, tx, exhibitorID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicateApplication
		}

		insertSQL, insertArgs, err := r.sb.Insert("event_applications").
			Columns("exhibitor_id", "event_id", "application_status").
			Values(exhibitorID, eventID, models.ApplicationStatusPending).
			Suffix("RETURNING " + joinColumns(applicationColumns)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create application query: %w", err)
		}

		created, err = scanApplication(tx.QueryRow(ctx, insertSQL, insertArgs...))
		return err
	})
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, ApplicationUniqueConstraint) {
			return nil, apperrors.ErrDuplicateApplication
		}
		// the event row is locked, so only the exhibitor reference can dangle
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrExhibitorNotFound
		}
		if apperrors.Is(err, apperrors.ErrEventNotFound, apperrors.ErrApplicationsClosed, apperrors.ErrDuplicateApplication) {
			return nil, err
		}
		logger.Error().Err(err).
			Str("exhibitorID", exhibitorID.String()).
			Str("eventID", eventID.String()).
			Msg("Error creating application")
		return nil, fmt.Errorf("error creating application: %w", err)
	}
	return created, nil
}

// UpdateStatusIfPending moves a pending application to status. When the row
// is no longer pending nothing is written and ErrInvalidTransition is returned.
func (r *ApplicationRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	sql, args, err := r.sb.Update("event_applications").
		Set("application_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "application_status": models.ApplicationStatusPending}).
		Suffix("RETURNING " + joinColumns(applicationColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update application status SQL")
		return nil, fmt.Errorf("failed to build update status query: %w", err)
	}

	a, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidTransition
		}
		logger.Error().Err(err).Str("applicationID", id.String()).Msg("Error executing update application status query")
		return nil, fmt.Errorf("error updating application status: %w", err)
	}
	return a, nil
}

// ListByExhibitor returns the exhibitor's applications with event summaries, newest first
func (r *ApplicationRepository) ListByExhibitor(ctx context.Context, exhibitorID uuid.UUID) ([]*models.ApplicationWithEvent, error) {
	cols := append(qualify("a", applicationColumns),
		"e.id", "e.event_name", "e.event_start_date", "e.event_end_date", "e.venue_name", "e.venue_city")

	sql, args, err := r.sb.Select(cols...).
		From("event_applications a").
		Join("events e ON e.id = a.event_id").
		Where(squirrel.Eq{"a.exhibitor_id": exhibitorID}).
		OrderBy("a.applied_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list exhibitor applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("exhibitorID", exhibitorID.String()).Msg("Error executing list exhibitor applications query")
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ApplicationWithEvent, 0)
	for rows.Next() {
		item := &models.ApplicationWithEvent{}
		a, ev := &item.Application, &item.Event
		err := rows.Scan(&a.ID, &a.ExhibitorID, &a.EventID, &a.Status, &a.AppliedAt, &a.UpdatedAt,
			&ev.ID, &ev.Name, &ev.StartDate, &ev.EndDate, &ev.VenueName, &ev.VenueCity)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning exhibitor application row")
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}

// ListByEvent returns the event's applications with exhibitor contact data, newest first
func (r *ApplicationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.ApplicationWithExhibitor, error) {
	cols := append(qualify("a", applicationColumns),
		"x.id", "x.name", "x.email", "x.phone_number", "x.genre_category", "x.genre_free_text")

	sql, args, err := r.sb.Select(cols...).
		From("event_applications a").
		Join("exhibitors x ON x.id = a.exhibitor_id").
		Where(squirrel.Eq{"a.event_id": eventID}).
		OrderBy("a.applied_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list event applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Error executing list event applications query")
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ApplicationWithExhibitor, 0)
	for rows.Next() {
		item := &models.ApplicationWithExhibitor{}
		a, x := &item.Application, &item.Exhibitor
		err := rows.Scan(&a.ID, &a.ExhibitorID, &a.EventID, &a.Status, &a.AppliedAt, &a.UpdatedAt,
			&x.ID, &x.Name, &x.Email, &x.PhoneNumber, &x.GenreCategory, &x.GenreFreeText)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event application row")
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}
