package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// EventLookup loads events by ID
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// AuthorizationService handles ownership checks on organizer resources
type AuthorizationService struct {
	events EventLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(events EventLookup) *AuthorizationService {
	return &AuthorizationService{
		events: events,
	}
}

// ValidateEventOwnership returns the event when organizerID owns it
func (s *AuthorizationService) ValidateEventOwnership(ctx context.Context, eventID, organizerID uuid.UUID) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Error getting event in ValidateEventOwnership")
		return nil, err
	}

	if event.OrganizerID != organizerID {
		logger.Warn().
			Str("eventID", eventID.String()).
			Str("organizerID", organizerID.String()).
			Msg("Organizer does not own event")
		return nil, apperrors.NewForbiddenError("you don't have permission to manage this event")
	}
	return event, nil
}

// ValidateNotificationOwnership fails unless rcpt is the recipient of n
func (s *AuthorizationService) ValidateNotificationOwnership(n *models.Notification, rcpt models.Recipient) error {
	if n.Recipient() != rcpt {
		return apperrors.NewForbiddenError("you don't have permission to access this notification")
	}
	return nil
}
