package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/dberrors"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

var organizerColumns = []string{
	"id", "user_id", "line_user_id", "name", "email", "phone_number", "created_at", "updated_at",
}

// OrganizerRepository handles organizer database operations
type OrganizerRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewOrganizerRepository creates a new OrganizerRepository
func NewOrganizerRepository(db DB) *OrganizerRepository {
	return &OrganizerRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanOrganizer(row pgx.Row) (*models.Organizer, error) {
	o := &models.Organizer{}
	err := row.Scan(&o.ID, &o.UserID, &o.LineUserID, &o.Name, &o.Email, &o.PhoneNumber, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// findOne returns ErrOrganizerNotFound when no row matches
func (r *OrganizerRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Organizer, error) {
	sql, args, err := r.sb.Select(organizerColumns...).
		From("organizers").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get organizer SQL")
		return nil, fmt.Errorf("failed to build get organizer query: %w", err)
	}

	o, err := scanOrganizer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrganizerNotFound
		}
		logger.Error().Err(err).Msg("Error scanning organizer row")
		return nil, fmt.Errorf("error getting organizer: %w", err)
	}
	return o, nil
}

// GetByID retrieves an organizer by primary key
func (r *OrganizerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organizer, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUserID looks up the organizer linked to a primary auth provider account
func (r *OrganizerRepository) FindByUserID(ctx context.Context, userID string) (*models.Organizer, error) {
	return r.findOne(ctx, squirrel.Eq{"user_id": userID})
}

// FindByLineUserID looks up the organizer linked to a LINE account
func (r *OrganizerRepository) FindByLineUserID(ctx context.Context, lineUserID string) (*models.Organizer, error) {
	return r.findOne(ctx, squirrel.Eq{"line_user_id": lineUserID})
}

// Create inserts a new organizer and fills in its generated fields
func (r *OrganizerRepository) Create(ctx context.Context, o *models.Organizer) error {
	sql, args, err := r.sb.Insert("organizers").
		Columns("user_id", "line_user_id", "name", "email", "phone_number").
		Values(o.UserID, o.LineUserID, o.Name, o.Email, o.PhoneNumber).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create organizer SQL")
		return fmt.Errorf("failed to build create organizer query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Msg("Error executing create organizer query")
		return fmt.Errorf("error creating organizer: %w", err)
	}
	return nil
}

// UpdateProfile overwrites the organizer's contact details
func (r *OrganizerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p models.OrganizerProfile) (*models.Organizer, error) {
	sql, args, err := r.sb.Update("organizers").
		SetMap(map[string]interface{}{
			"name":         p.Name,
			"email":        p.Email,
			"phone_number": p.PhoneNumber,
			"updated_at":   squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(organizerColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update organizer SQL")
		return nil, fmt.Errorf("failed to build update organizer query: %w", err)
	}

	o, err := scanOrganizer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrganizerNotFound
		}
		logger.Error().Err(err).Str("organizerID", id.String()).Msg("Error executing update organizer query")
		return nil, fmt.Errorf("error updating organizer: %w", err)
	}
	return o, nil
}
