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

var exhibitorColumns = []string{
	"id", "user_id", "line_user_id",
	"name", "gender", "age", "phone_number", "email", "genre_category", "genre_free_text",
	"business_license_image_url", "vehicle_inspection_image_url", "automobile_inspection_image_url",
	"pl_insurance_image_url", "fire_equipment_layout_image_url",
	"created_at", "updated_at",
}

// ExhibitorRepository handles exhibitor database operations
type ExhibitorRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewExhibitorRepository creates a new ExhibitorRepository
func NewExhibitorRepository(db DB) *ExhibitorRepository {
	return &ExhibitorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanExhibitor(row pgx.Row) (*models.Exhibitor, error) {
	e := &models.Exhibitor{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.LineUserID,
		&e.Name, &e.Gender, &e.Age, &e.PhoneNumber, &e.Email, &e.GenreCategory, &e.GenreFreeText,
		&e.Documents.BusinessLicenseImageURL, &e.Documents.VehicleInspectionImageURL,
		&e.Documents.AutomobileInspectionImageURL, &e.Documents.PLInsuranceImageURL,
		&e.Documents.FireEquipmentLayoutImageURL,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExhibitorRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Exhibitor, error) {
	sql, args, err := r.sb.Select(exhibitorColumns...).
		From("exhibitors").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exhibitor SQL")
		return nil, fmt.Errorf("failed to build get exhibitor query: %w", err)
	}

	e, err := scanExhibitor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExhibitorNotFound
		}
		logger.Error().Err(err).Msg("Error scanning exhibitor row")
		return nil, fmt.Errorf("error getting exhibitor: %w", err)
	}
	return e, nil
}

// GetByID retrieves an exhibitor by primary key
func (r *ExhibitorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Exhibitor, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUserID looks up the exhibitor linked to a primary auth provider account
func (r *ExhibitorRepository) FindByUserID(ctx context.Context, userID string) (*models.Exhibitor, error) {
	return r.findOne(ctx, squirrel.Eq{"user_id": userID})
}

// FindByLineUserID looks up the exhibitor linked to a LINE account
func (r *ExhibitorRepository) FindByLineUserID(ctx context.Context, lineUserID string) (*models.Exhibitor, error) {
	return r.findOne(ctx, squirrel.Eq{"line_user_id": lineUserID})
}

// Create inserts a new exhibitor and fills in its generated fields
func (r *ExhibitorRepository) Create(ctx context.Context, e *models.Exhibitor) error {
	p := e.ExhibitorProfile
	sql, args, err := r.sb.Insert("exhibitors").
		Columns("user_id", "line_user_id", "name", "gender", "age", "phone_number", "email", "genre_category", "genre_free_text").
		Values(e.UserID, e.LineUserID, p.Name, p.Gender, p.Age, p.PhoneNumber, p.Email, p.GenreCategory, p.GenreFreeText).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create exhibitor SQL")
		return fmt.Errorf("failed to build create exhibitor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Msg("Error executing create exhibitor query")
		return fmt.Errorf("error creating exhibitor: %w", err)
	}
	return nil
}

// UpdateProfile overwrites the editable contact and genre fields
func (r *ExhibitorRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p models.ExhibitorProfile) (*models.Exhibitor, error) {
	sql, args, err := r.sb.Update("exhibitors").
		SetMap(map[string]interface{}{
			"name":            p.Name,
			"gender":          p.Gender,
			"age":             p.Age,
			"phone_number":    p.PhoneNumber,
			"email":           p.Email,
			"genre_category":  p.GenreCategory,
			"genre_free_text": p.GenreFreeText,
			"updated_at":      squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(exhibitorColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update exhibitor SQL")
		return nil, fmt.Errorf("failed to build update exhibitor query: %w", err)
	}

	e, err := scanExhibitor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExhibitorNotFound
		}
		logger.Error().Err(err).Str("exhibitorID", id.String()).Msg("Error executing update exhibitor query")
		return nil, fmt.Errorf("error updating exhibitor: %w", err)
	}
	return e, nil
}

// UpdateDocument stores the URL of an uploaded document in its slot
func (r *ExhibitorRepository) UpdateDocument(ctx context.Context, id uuid.UUID, kind models.DocumentKind, url string) (*models.Exhibitor, error) {
	column, ok := kind.Column()
	if !ok {
		return nil, apperrors.ErrInvalidDocumentKind
	}

	sql, args, err := r.sb.Update("exhibitors").
		Set(column, url).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(exhibitorColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update exhibitor document SQL")
		return nil, fmt.Errorf("failed to build update document query: %w", err)
	}

	e, err := scanExhibitor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExhibitorNotFound
		}
		logger.Error().Err(err).Str("exhibitorID", id.String()).Str("kind", string(kind)).Msg("Error executing update document query")
		return nil, fmt.Errorf("error updating exhibitor document: %w", err)
	}
	return e, nil
}
