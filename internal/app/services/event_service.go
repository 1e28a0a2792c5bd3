package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/helpers"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// EventService defines event operations for both portals
type EventService interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req dto.CreateEventRequest) (*models.Event, error)
	ListOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]*models.Event, error)
	GetOrganizerEvent(ctx context.Context, eventID, organizerID uuid.UUID) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID, organizerID uuid.UUID) error
	ListOpenEvents(ctx context.Context, filter models.EventFilter, page, size int) ([]*models.Event, dto.PaginationInfo, error)
	GetOpenEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
}

// eventServiceImpl implements the EventService interface
type eventServiceImpl struct {
	events EventStore
	authz  *auth.AuthorizationService
	now    func() time.Time
}

// NewEventService creates a new event service instance
func NewEventService(events EventStore, authz *auth.AuthorizationService) EventService {
	return &eventServiceImpl{
		events: events,
		authz:  authz,
		now:    time.Now,
	}
}

// validateEvent checks the date fields the form tags cannot express
func (s *eventServiceImpl) validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.Name) == "" {
		return fmt.Errorf("%w: event name cannot be empty", apperrors.ErrValidationFailed)
	}
	if event.EndDate.Before(event.StartDate) {
		return fmt.Errorf("%w: event end date must not be before start date", apperrors.ErrValidationFailed)
	}
	if event.ApplicationEndDate != nil && helpers.StartOfDay(*event.ApplicationEndDate).After(helpers.StartOfDay(event.EndDate)) {
		return fmt.Errorf("%w: application end date must not be after the event ends", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateEvent stores a new event owned by organizerID. It starts pending approval.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, organizerID uuid.UUID, req dto.CreateEventRequest) (*models.Event, error) {
	event := req.ToModel()
	event.OrganizerID = organizerID
	if err := s.validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	logger.Info().Str("eventID", event.ID.String()).Str("organizerID", organizerID.String()).Msg("Event created")
	return event, nil
}

func (s *eventServiceImpl) ListOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]*models.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

func (s *eventServiceImpl) GetOrganizerEvent(ctx context.Context, eventID, organizerID uuid.UUID) (*models.Event, error) {
	return s.authz.ValidateEventOwnership(ctx, eventID, organizerID)
}

// UpdateEvent rewrites the descriptive fields, dates and venue of an event the
// organizer owns. Approval status and the closed flag keep their stored values.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error) {
	if _, err := s.authz.ValidateEventOwnership(ctx, eventID, organizerID); err != nil {
		return nil, err
	}

	event := req.ToModel()
	event.ID = eventID
	event.OrganizerID = organizerID
	if err := s.validateEvent(event); err != nil {
		return nil, err
	}

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("eventID", eventID.String()).Msg("Event updated")
	return updated, nil
}

// DeleteEvent removes an event the organizer owns
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, eventID, organizerID uuid.UUID) error {
	if _, err := s.authz.ValidateEventOwnership(ctx, eventID, organizerID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}
	logger.Info().Str("eventID", eventID.String()).Msg("Event deleted")
	return nil
}

// ListOpenEvents searches approved events that still accept applications today
func (s *eventServiceImpl) ListOpenEvents(ctx context.Context, filter models.EventFilter, page, size int) ([]*models.Event, dto.PaginationInfo, error) {
	if filter.PeriodStart != nil && filter.PeriodEnd != nil && filter.PeriodEnd.Before(*filter.PeriodStart) {
		return nil, dto.PaginationInfo{}, fmt.Errorf("%w: period end must not be before period start", apperrors.ErrValidationFailed)
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Today = helpers.StartOfDay(s.now())

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	events, total, err := s.events.ListOpen(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing open events: %w", err)
	}
	return events, helpers.NewPaginationInfo(total, page, limit), nil
}

// GetOpenEvent returns an approved event for the exhibitor portal
func (s *eventServiceImpl) GetOpenEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.ApprovalStatus != models.EventApprovalApproved {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}
