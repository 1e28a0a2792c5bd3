package seed

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/stallhub/internal/app/models"
	appRepos "github.com/yigit/stallhub/internal/app/repositories"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/helpers"
)

// DemoOrganizerUserID is the auth provider id the demo organizer is linked to
const DemoOrganizerUserID = "seed-organizer"

// CreateDefaultData creates a demo organizer with one approved event open
// for applications. Existing data is left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	organizerRepo := appRepos.NewOrganizerRepository(dbPool)
	eventRepo := appRepos.NewEventRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (demo organizer and event)...")

	_, err := organizerRepo.FindByUserID(ctx, DemoOrganizerUserID)
	if err == nil {
		lgr.Info().Msg("Demo organizer already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, apperrors.ErrOrganizerNotFound) {
		return err
	}

	organizer := &appModels.Organizer{
		AccountKeys: appModels.AccountKeys{UserID: helpers.NullIfEmpty(DemoOrganizerUserID)},
		OrganizerProfile: appModels.OrganizerProfile{
			Name:  "デモ主催者",
			Email: "organizer@example.com",
		},
	}
	if err := organizerRepo.Create(ctx, organizer); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo organizer")
		return err
	}

	start := time.Now().AddDate(0, 1, 0)
	deadline := start.AddDate(0, 0, -7)
	event := &appModels.Event{
		OrganizerID:        organizer.ID,
		Name:               "デモマルシェ",
		Genre:              "food",
		VenueName:          "中央公園",
		VenueCity:          "東京都",
		VenueTown:          "渋谷区",
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, 1),
		ApplicationEndDate: &deadline,
	}
	if err := eventRepo.Create(ctx, event); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo event")
		return err
	}

	// events are created pending; the demo one is approved so it is listed
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Update("events").
		Set("approval_status", appModels.EventApprovalApproved).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := dbPool.Exec(ctx, sql, args...); err != nil {
		lgr.Error().Err(err).Msg("Error approving demo event")
		return err
	}

	lgr.Info().Str("organizerID", organizer.ID.String()).Str("eventID", event.ID.String()).Msg("Demo data created")
	return nil
}
