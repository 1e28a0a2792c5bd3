package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/email"
	"github.com/yigit/stallhub/internal/pkg/export"
	"github.com/yigit/stallhub/internal/pkg/helpers"
	"github.com/yigit/stallhub/internal/pkg/metrics"
)

// ApplicationService runs the application lifecycle: apply, decide, close.
type ApplicationService interface {
	Apply(ctx context.Context, identity models.Identity, eventID uuid.UUID) (*models.Application, error)
	SetStatus(ctx context.Context, applicationID uuid.UUID, decision models.ApplicationStatus, organizerID uuid.UUID) (*models.Application, error)
	CloseApplications(ctx context.Context, eventID, organizerID uuid.UUID) (*models.CloseResult, error)
	ListForExhibitor(ctx context.Context, identity models.Identity) ([]*models.ApplicationWithEvent, error)
	ListForEvent(ctx context.Context, eventID, organizerID uuid.UUID) ([]*models.ApplicationWithExhibitor, error)
	GetForOrganizer(ctx context.Context, applicationID, organizerID uuid.UUID) (*models.Application, error)
}

// NotificationGateway records in-app notifications
type NotificationGateway interface {
	Create(ctx context.Context, n *models.Notification) error
}

// ApplicationServiceDeps are the collaborators of ApplicationService
type ApplicationServiceDeps struct {
	Applications  ApplicationStore
	Events        EventStore
	Organizers    OrganizerStore
	Exhibitors    ExhibitorStore
	Resolver      *auth.IdentityResolver
	Authz         *auth.AuthorizationService
	Notifications NotificationGateway
	Mailer        email.Sender
	Exporter      export.Exporter
	FanOut        *FanOut
	Logger        zerolog.Logger

	// NotifyExhibitorOnDecision sends the exhibitor a notification after approve/reject
	NotifyExhibitorOnDecision bool
}

type applicationServiceImpl struct {
	ApplicationServiceDeps
	now func() time.Time
}

// NewApplicationService creates a new application service instance
func NewApplicationService(deps ApplicationServiceDeps) ApplicationService {
	return &applicationServiceImpl{
		ApplicationServiceDeps: deps,
		now:                    time.Now,
	}
}

// Apply creates a pending application for the exhibitor behind identity.
// Organizer notification and email are dispatched after the insert commits
// and cannot change the result.
func (s *applicationServiceImpl) Apply(ctx context.Context, identity models.Identity, eventID uuid.UUID) (*models.Application, error) {
	exhibitor, err := s.Resolver.RequireExhibitor(ctx, identity)
	if err != nil {
		metrics.RecordTransition("apply", outcomeOf(err))
		return nil, err
	}

	exists, err := s.Applications.ExistsForExhibitor(ctx, exhibitor.ID, eventID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing application: %w", err)
	}
	if exists {
		metrics.RecordTransition("apply", "duplicate")
		return nil, apperrors.ErrDuplicateApplication
	}

	app, err := s.Applications.CreatePending(ctx, exhibitor.ID, eventID, helpers.StartOfDay(s.now()))
	if err != nil {
		metrics.RecordTransition("apply", outcomeOf(err))
		if apperrors.Is(err, apperrors.ErrDuplicateApplication, apperrors.ErrEventNotFound, apperrors.ErrApplicationsClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating application: %w", err)
	}
	metrics.RecordTransition("apply", "ok")

	s.Logger.Info().
		Str("applicationID", app.ID.String()).
		Str("exhibitorID", exhibitor.ID.String()).
		Str("eventID", eventID.String()).
		Msg("Application submitted")

	s.FanOut.DispatchPlan(ctx, "resolve_organizer", s.applicationReceivedPlan(app))
	return app, nil
}

// applicationReceivedPlan notifies and emails the organizer of the event
func (s *applicationServiceImpl) applicationReceivedPlan(app *models.Application) Plan {
	return func(ctx context.Context) ([]Step, error) {
		event, err := s.Events.GetByID(ctx, app.EventID)
		if err != nil {
			return nil, fmt.Errorf("load event: %w", err)
		}
		organizer, err := s.Organizers.GetByID(ctx, event.OrganizerID)
		if err != nil {
			return nil, fmt.Errorf("load organizer: %w", err)
		}

		recipientKey := organizer.RecipientKey()
		if recipientKey == "" {
			s.Logger.Warn().Str("organizerID", organizer.ID.String()).Msg("Organizer has no identity key, skipping notification and email")
			return nil, nil
		}

		eventID, appID := event.ID, app.ID
		steps := []Step{{
			Name: "organizer_notification",
			Run: func(ctx context.Context) error {
				return s.Notifications.Create(ctx, &models.Notification{
					UserID:               recipientKey,
					UserType:             models.RoleOrganizer,
					Type:                 models.NotificationApplicationReceived,
					Title:                "新しい出店申し込み",
					Message:              fmt.Sprintf("%sに新しい出店申し込みがありました。", event.Name),
					RelatedEventID:       &eventID,
					RelatedApplicationID: &appID,
				})
			},
		}}

		if organizer.Email != "" {
			steps = append(steps, Step{
				Name: "organizer_email",
				Run: func(ctx context.Context) error {
					subject, body := email.ApplicationReceived(event.Name)
					return s.Mailer.Send(ctx, organizer.Email, subject, body)
				},
			})
		}
		return steps, nil
	}
}

// SetStatus records the organizer's decision on a pending application
func (s *applicationServiceImpl) SetStatus(ctx context.Context, applicationID uuid.UUID, decision models.ApplicationStatus, organizerID uuid.UUID) (*models.Application, error) {
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidDecision, decision)
	}

	app, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	event, err := s.Authz.ValidateEventOwnership(ctx, app.EventID, organizerID)
	if err != nil {
		metrics.RecordTransition("decide", outcomeOf(err))
		return nil, err
	}

	if app.Status.IsTerminal() {
		metrics.RecordTransition("decide", "invalid_transition")
		return nil, apperrors.ErrInvalidTransition
	}

	updated, err := s.Applications.UpdateStatusIfPending(ctx, applicationID, decision)
	if err != nil {
		metrics.RecordTransition("decide", outcomeOf(err))
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating application status: %w", err)
	}
	metrics.RecordTransition("decide", "ok")

	s.Logger.Info().
		Str("applicationID", applicationID.String()).
		Str("organizerID", organizerID.String()).
		Str("status", string(decision)).
		Msg("Application decided")

	if s.NotifyExhibitorOnDecision {
		s.FanOut.DispatchPlan(ctx, "resolve_exhibitor", s.decisionPlan(updated, event))
	}
	return updated, nil
}

func (s *applicationServiceImpl) decisionPlan(app *models.Application, event *models.Event) Plan {
	return func(ctx context.Context) ([]Step, error) {
		exhibitor, err := s.Exhibitors.GetByID(ctx, app.ExhibitorID)
		if err != nil {
			return nil, fmt.Errorf("load exhibitor: %w", err)
		}
		recipientKey := exhibitor.RecipientKey()
		if recipientKey == "" {
			return nil, nil
		}

		n := &models.Notification{
			UserID:   recipientKey,
			UserType: models.RoleExhibitor,
			Type:     models.NotificationApplicationApproved,
			Title:    "出店申し込みが承認されました",
			Message:  fmt.Sprintf("%sへの出店申し込みが承認されました。", event.Name),
		}
		if app.Status == models.ApplicationStatusRejected {
			n.Type = models.NotificationApplicationRejected
			n.Title = "出店申し込みが却下されました"
			n.Message = fmt.Sprintf("%sへの出店申し込みが却下されました。", event.Name)
		}
		eventID, appID := event.ID, app.ID
		n.RelatedEventID, n.RelatedApplicationID = &eventID, &appID

		return []Step{{
			Name: "exhibitor_notification",
			Run:  func(ctx context.Context) error { return s.Notifications.Create(ctx, n) },
		}}, nil
	}
}

// CloseApplications exports the event's exhibitors and then stops accepting
// applications. When the export fails the event stays open.
func (s *applicationServiceImpl) CloseApplications(ctx context.Context, eventID, organizerID uuid.UUID) (*models.CloseResult, error) {
	event, err := s.Authz.ValidateEventOwnership(ctx, eventID, organizerID)
	if err != nil {
		metrics.RecordTransition("close", outcomeOf(err))
		return nil, err
	}
	if event.IsApplicationClosed {
		metrics.RecordTransition("close", "already_closed")
		return nil, apperrors.ErrApplicationsClosed
	}

	organizer, err := s.Organizers.GetByID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("error loading organizer: %w", err)
	}

	result, err := s.Exporter.Export(ctx, export.Request{
		EventID:        event.ID,
		OrganizerID:    organizer.ID,
		EventName:      event.Name,
		OrganizerEmail: organizer.Email,
	})
	if err != nil {
		metrics.RecordTransition("close", "export_failed")
		s.Logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Export failed, event left open")
		return nil, apperrors.NewUpstreamError("export", err)
	}

	if err := s.Events.MarkApplicationsClosed(ctx, eventID); err != nil {
		metrics.RecordTransition("close", outcomeOf(err))
		if errors.Is(err, apperrors.ErrApplicationsClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("error closing applications: %w", err)
	}
	metrics.RecordTransition("close", "ok")

	s.Logger.Info().
		Str("eventID", eventID.String()).
		Int("applicationCount", result.ApplicationCount).
		Str("spreadsheetUrl", result.SpreadsheetURL).
		Msg("Applications closed")

	if organizer.Email != "" {
		s.FanOut.Dispatch(ctx, Step{
			Name: "close_confirmation_email",
			Run: func(ctx context.Context) error {
				subject, body := email.ApplicationsClosed(event.Name, result.ApplicationCount, result.SpreadsheetURL)
				return s.Mailer.Send(ctx, organizer.Email, subject, body)
			},
		})
	}

	return &models.CloseResult{
		EventID:          eventID,
		ApplicationCount: result.ApplicationCount,
		ExportURL:        result.SpreadsheetURL,
	}, nil
}

// ListForExhibitor returns the caller's applications, newest first
func (s *applicationServiceImpl) ListForExhibitor(ctx context.Context, identity models.Identity) ([]*models.ApplicationWithEvent, error) {
	exhibitor, err := s.Resolver.RequireExhibitor(ctx, identity)
	if err != nil {
		return nil, err
	}
	apps, err := s.Applications.ListByExhibitor(ctx, exhibitor.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return apps, nil
}

// ListForEvent returns the applications to an event the organizer owns
func (s *applicationServiceImpl) ListForEvent(ctx context.Context, eventID, organizerID uuid.UUID) ([]*models.ApplicationWithExhibitor, error) {
	if _, err := s.Authz.ValidateEventOwnership(ctx, eventID, organizerID); err != nil {
		return nil, err
	}
	apps, err := s.Applications.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return apps, nil
}

// GetForOrganizer returns one application to an event the organizer owns
func (s *applicationServiceImpl) GetForOrganizer(ctx context.Context, applicationID, organizerID uuid.UUID) (*models.Application, error) {
	app, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Authz.ValidateEventOwnership(ctx, app.EventID, organizerID); err != nil {
		return nil, err
	}
	return app, nil
}

// outcomeOf maps an error to a metrics label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrApplicationsClosed):
		return "closed"
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "forbidden"
	default:
		return "error"
	}
}
