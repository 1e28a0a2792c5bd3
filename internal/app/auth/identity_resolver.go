package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
)

// ExhibitorLookup finds exhibitors by either linkage column
type ExhibitorLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.Exhibitor, error)
	FindByLineUserID(ctx context.Context, lineUserID string) (*models.Exhibitor, error)
}

// OrganizerLookup finds organizers by either linkage column
type OrganizerLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.Organizer, error)
	FindByLineUserID(ctx context.Context, lineUserID string) (*models.Organizer, error)
}

// Resolution is the domain row behind a session, if any
type Resolution struct {
	Role      models.Role
	Exhibitor *models.Exhibitor
	Organizer *models.Organizer
}

// Registered reports whether a row was found for the role
func (r Resolution) Registered() bool {
	return r.Exhibitor != nil || r.Organizer != nil
}

// Recipient is where notifications for the resolved row are addressed
func (r Resolution) Recipient() (models.Recipient, bool) {
	var keys models.AccountKeys
	switch {
	case r.Exhibitor != nil:
		keys = r.Exhibitor.AccountKeys
	case r.Organizer != nil:
		keys = r.Organizer.AccountKeys
	default:
		return models.Recipient{}, false
	}
	key := keys.RecipientKey()
	return models.Recipient{UserID: key, UserType: r.Role}, key != ""
}

// IdentityResolver maps a session identity to an exhibitor or organizer row.
// Each identity variant is looked up only in its own column.
type IdentityResolver struct {
	exhibitors ExhibitorLookup
	organizers OrganizerLookup
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(exhibitors ExhibitorLookup, organizers OrganizerLookup) *IdentityResolver {
	return &IdentityResolver{
		exhibitors: exhibitors,
		organizers: organizers,
	}
}

// ResolveExhibitor returns the exhibitor owned by identity. A missing row is
// reported as found=false with a nil error.
func (r *IdentityResolver) ResolveExhibitor(ctx context.Context, identity models.Identity) (*models.Exhibitor, bool, error) {
	var (
		exhibitor *models.Exhibitor
		err       error
	)
	switch id := identity.(type) {
	case models.LinkedAccount:
		exhibitor, err = r.exhibitors.FindByUserID(ctx, id.UserID)
	case models.ExternalAccount:
		exhibitor, err = r.exhibitors.FindByLineUserID(ctx, id.ExternalUserID)
	default:
		return nil, false, fmt.Errorf("unsupported identity %T", identity)
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrExhibitorNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error resolving exhibitor: %w", err)
	}
	return exhibitor, true, nil
}

// ResolveOrganizer returns the organizer owned by identity. A missing row is
// reported as found=false with a nil error.
func (r *IdentityResolver) ResolveOrganizer(ctx context.Context, identity models.Identity) (*models.Organizer, bool, error) {
	var (
		organizer *models.Organizer
		err       error
	)
	switch id := identity.(type) {
	case models.LinkedAccount:
		organizer, err = r.organizers.FindByUserID(ctx, id.UserID)
	case models.ExternalAccount:
		organizer, err = r.organizers.FindByLineUserID(ctx, id.ExternalUserID)
	default:
		return nil, false, fmt.Errorf("unsupported identity %T", identity)
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrOrganizerNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error resolving organizer: %w", err)
	}
	return organizer, true, nil
}

// Resolve looks identity up in the table of role
func (r *IdentityResolver) Resolve(ctx context.Context, role models.Role, identity models.Identity) (Resolution, error) {
	res := Resolution{Role: role}
	switch role {
	case models.RoleExhibitor:
		exhibitor, _, err := r.ResolveExhibitor(ctx, identity)
		if err != nil {
			return res, err
		}
		res.Exhibitor = exhibitor
	case models.RoleOrganizer:
		organizer, _, err := r.ResolveOrganizer(ctx, identity)
		if err != nil {
			return res, err
		}
		res.Organizer = organizer
	default:
		return res, fmt.Errorf("unknown role %q", role)
	}
	return res, nil
}

// RequireExhibitor is ResolveExhibitor with a missing row turned into ErrNotRegistered
func (r *IdentityResolver) RequireExhibitor(ctx context.Context, identity models.Identity) (*models.Exhibitor, error) {
	exhibitor, found, err := r.ResolveExhibitor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotRegisteredError(string(models.RoleExhibitor))
	}
	return exhibitor, nil
}

// RequireOrganizer is ResolveOrganizer with a missing row turned into ErrNotRegistered
func (r *IdentityResolver) RequireOrganizer(ctx context.Context, identity models.Identity) (*models.Organizer, error) {
	organizer, found, err := r.ResolveOrganizer(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotRegisteredError(string(models.RoleOrganizer))
	}
	return organizer, nil
}

// Recipient returns the notification recipient for a session
func (r *IdentityResolver) Recipient(ctx context.Context, role models.Role, identity models.Identity) (models.Recipient, error) {
	res, err := r.Resolve(ctx, role, identity)
	if err != nil {
		return models.Recipient{}, err
	}
	rcpt, ok := res.Recipient()
	if !ok {
		return models.Recipient{}, apperrors.NewNotRegisteredError(string(role))
	}
	return rcpt, nil
}
