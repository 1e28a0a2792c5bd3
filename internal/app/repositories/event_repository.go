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
	"github.com/yigit/stallhub/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "organizer_id", "event_name", "event_description", "lead_text", "genre",
	"venue_name", "venue_address", "venue_city", "venue_town",
	"event_start_date", "event_end_date", "application_end_date",
	"approval_status", "is_application_closed", "main_image_url",
	"created_at", "updated_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Name, &e.Description, &e.LeadText, &e.Genre,
		&e.VenueName, &e.VenueAddress, &e.VenueCity, &e.VenueTown,
		&e.StartDate, &e.EndDate, &e.ApplicationEndDate,
		&e.ApprovalStatus, &e.IsApplicationClosed, &e.MainImageURL,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return events, nil
}

// Create inserts a new event. Approval starts as pending and applications open.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns(
			"organizer_id", "event_name", "event_description", "lead_text", "genre",
			"venue_name", "venue_address", "venue_city", "venue_town",
			"event_start_date", "event_end_date", "application_end_date", "main_image_url",
		).
		Values(
			e.OrganizerID, e.Name, e.Description, e.LeadText, e.Genre,
			e.VenueName, e.VenueAddress, e.VenueCity, e.VenueTown,
			e.StartDate, e.EndDate, e.ApplicationEndDate, e.MainImageURL,
		).
		Suffix("RETURNING id, approval_status, is_application_closed, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&e.ID, &e.ApprovalStatus, &e.IsApplicationClosed, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("organizerID", e.OrganizerID.String()).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// editableEventColumns maps the organizer-editable columns to their values.
// approval_status and is_application_closed are owned by moderation and the
// close flow and never appear here.
func editableEventColumns(e *models.Event) map[string]interface{} {
	return map[string]interface{}{
		"event_name":           e.Name,
		"event_description":    e.Description,
		"lead_text":            e.LeadText,
		"genre":                e.Genre,
		"venue_name":           e.VenueName,
		"venue_address":        e.VenueAddress,
		"venue_city":           e.VenueCity,
		"venue_town":           e.VenueTown,
		"event_start_date":     e.StartDate,
		"event_end_date":       e.EndDate,
		"application_end_date": e.ApplicationEndDate,
		"main_image_url":       e.MainImageURL,
	}
}

// Update overwrites the editable columns of e and returns the stored row
func (r *EventRepository) Update(ctx context.Context, e *models.Event) (*models.Event, error) {
	set := editableEventColumns(e)
	set["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := r.sb.Update("events").
		SetMap(set).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING " + joinColumns(eventColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update event SQL")
		return nil, fmt.Errorf("failed to build update event query: %w", err)
	}

	updated, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", e.ID.String()).Msg("Error executing update event query")
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return updated, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event SQL")
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	return e, nil
}

// ListByOrganizer returns every event owned by the organizer, newest first
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"organizer_id": organizerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list organizer events SQL")
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("organizerID", organizerID.String()).Msg("Error executing list organizer events query")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return collectEvents(rows)
}

// openEventConditions builds the WHERE clause of the exhibitor-facing search
func openEventConditions(f models.EventFilter) squirrel.And {
	conds := squirrel.And{
		squirrel.Eq{"approval_status": models.EventApprovalApproved},
		squirrel.Eq{"is_application_closed": false},
		squirrel.Or{
			squirrel.Eq{"application_end_date": nil},
			squirrel.GtOrEq{"application_end_date": f.Today},
		},
	}

	if f.PeriodStart != nil {
		conds = append(conds, squirrel.GtOrEq{"event_end_date": *f.PeriodStart})
	}
	if f.PeriodEnd != nil {
		conds = append(conds, squirrel.LtOrEq{"event_start_date": *f.PeriodEnd})
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"event_name": like},
			squirrel.ILike{"event_description": like},
			squirrel.ILike{"lead_text": like},
		})
	}
	if f.Genre != "" {
		conds = append(conds, squirrel.ILike{"genre": "%" + f.Genre + "%"})
	}
	if f.Prefecture != "" {
		pref := "%" + f.Prefecture + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"venue_city": pref},
			squirrel.ILike{"venue_address": pref},
		})
		// city only narrows a prefecture search
		if f.City != "" {
			city := "%" + f.City + "%"
			conds = append(conds, squirrel.Or{
				squirrel.ILike{"venue_city": city},
				squirrel.ILike{"venue_town": city},
				squirrel.ILike{"venue_address": city},
			})
		}
	}
	return conds
}

// ListOpen returns a page of approved events still accepting applications,
// ordered by start date, together with the total match count
func (r *EventRepository) ListOpen(ctx context.Context, f models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error) {
	where := openEventConditions(f)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("events").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count open events SQL")
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count open events query")
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}
	if total == 0 {
		return []*models.Event{}, 0, nil
	}

	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(where).
		OrderBy("event_start_date ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list open events SQL")
		return nil, 0, fmt.Errorf("failed to build list open events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list open events query")
		return nil, 0, fmt.Errorf("error listing open events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		logger.Error().Err(err).Msg("Error reading open events")
		return nil, 0, err
	}
	return events, total, nil
}

// ListPastDeadline returns events whose application deadline is before day
// but which have not been closed yet
func (r *EventRepository) ListPastDeadline(ctx context.Context, day time.Time) ([]*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.And{
			squirrel.Eq{"is_application_closed": false},
			squirrel.NotEq{"application_end_date": nil},
			squirrel.Lt{"application_end_date": day},
		}).
		OrderBy("application_end_date ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list past deadline SQL")
		return nil, fmt.Errorf("failed to build past deadline query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list past deadline query")
		return nil, fmt.Errorf("error listing past deadline events: %w", err)
	}
	return collectEvents(rows)
}

// MarkApplicationsClosed flips the closed flag. It returns
// ErrApplicationsClosed when the event was already closed.
func (r *EventRepository) MarkApplicationsClosed(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Update("events").
		Set("is_application_closed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_application_closed": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building close applications SQL")
		return fmt.Errorf("failed to build close applications query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error executing close applications query")
		return fmt.Errorf("error closing applications: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationsClosed
	}
	return nil
}

// Delete removes an event along with its applications
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete event SQL")
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error executing delete event query")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}
