package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// OrganizerService defines organizer onboarding operations
type OrganizerService interface {
	Register(ctx context.Context, identity models.Identity, profile models.OrganizerProfile) (*models.Organizer, error)
	GetProfile(ctx context.Context, identity models.Identity) (*models.Organizer, error)
	UpdateProfile(ctx context.Context, identity models.Identity, profile models.OrganizerProfile) (*models.Organizer, error)
}

type organizerServiceImpl struct {
	organizers OrganizerStore
	resolver   *auth.IdentityResolver
}

// NewOrganizerService creates a new organizer service instance
func NewOrganizerService(organizers OrganizerStore, resolver *auth.IdentityResolver) OrganizerService {
	return &organizerServiceImpl{
		organizers: organizers,
		resolver:   resolver,
	}
}

// Register creates the organizer row owned by identity
func (s *organizerServiceImpl) Register(ctx context.Context, identity models.Identity, profile models.OrganizerProfile) (*models.Organizer, error) {
	_, found, err := s.resolver.ResolveOrganizer(ctx, identity)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, apperrors.ErrAlreadyRegistered
	}

	organizer := &models.Organizer{
		AccountKeys:      models.KeysFor(identity),
		OrganizerProfile: normalizeOrganizerProfile(profile),
	}
	if err := s.organizers.Create(ctx, organizer); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("error registering organizer: %w", err)
	}

	logger.Info().Str("organizerID", organizer.ID.String()).Str("method", string(identity.Method())).Msg("Organizer registered")
	return organizer, nil
}

func (s *organizerServiceImpl) GetProfile(ctx context.Context, identity models.Identity) (*models.Organizer, error) {
	return s.resolver.RequireOrganizer(ctx, identity)
}

// UpdateProfile overwrites the organizer's contact details. Name and email
// must survive trimming.
func (s *organizerServiceImpl) UpdateProfile(ctx context.Context, identity models.Identity, profile models.OrganizerProfile) (*models.Organizer, error) {
	organizer, err := s.resolver.RequireOrganizer(ctx, identity)
	if err != nil {
		return nil, err
	}

	profile = normalizeOrganizerProfile(profile)
	if profile.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidationFailed)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidationFailed)
	}

	updated, err := s.organizers.UpdateProfile(ctx, organizer.ID, profile)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("organizerID", organizer.ID.String()).Msg("Organizer profile updated")
	return updated, nil
}

func normalizeOrganizerProfile(p models.OrganizerProfile) models.OrganizerProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	return p
}
