package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
)

// ApplicationStore persists event applications
type ApplicationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ExistsForExhibitor(ctx context.Context, exhibitorID, eventID uuid.UUID) (bool, error)
	CreatePending(ctx context.Context, exhibitorID, eventID uuid.UUID, today time.Time) (*models.Application, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
	ListByExhibitor(ctx context.Context, exhibitorID uuid.UUID) ([]*models.ApplicationWithEvent, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.ApplicationWithExhibitor, error)
}

// EventStore persists events
type EventStore interface {
	auth.EventLookup
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) (*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Event, error)
	ListOpen(ctx context.Context, f models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error)
	ListPastDeadline(ctx context.Context, day time.Time) ([]*models.Event, error)
	MarkApplicationsClosed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrganizerStore persists organizers
type OrganizerStore interface {
	auth.OrganizerLookup
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organizer, error)
	Create(ctx context.Context, o *models.Organizer) error
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.OrganizerProfile) (*models.Organizer, error)
}

// ExhibitorStore persists exhibitors
type ExhibitorStore interface {
	auth.ExhibitorLookup
	GetByID(ctx context.Context, id uuid.UUID) (*models.Exhibitor, error)
	Create(ctx context.Context, e *models.Exhibitor) error
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.ExhibitorProfile) (*models.Exhibitor, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, kind models.DocumentKind, url string) (*models.Exhibitor, error)
}

// NotificationStore persists notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListForRecipient(ctx context.Context, rcpt models.Recipient, offset uint64, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, rcpt models.Recipient) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, rcpt models.Recipient) (int64, error)
}
