package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/pkg/helpers"
)

// NotificationPublisher pushes a stored notification to connected clients
type NotificationPublisher interface {
	Publish(n *models.Notification)
}

// NotificationService stores notifications and serves them to their recipient
type NotificationService interface {
	NotificationGateway
	ListForRecipient(ctx context.Context, rcpt models.Recipient, page, size int) ([]*models.Notification, dto.PaginationInfo, error)
	UnreadCount(ctx context.Context, rcpt models.Recipient) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, rcpt models.Recipient) error
	MarkAllRead(ctx context.Context, rcpt models.Recipient) (int64, error)
}

type notificationServiceImpl struct {
	store     NotificationStore
	publisher NotificationPublisher
	authz     *auth.AuthorizationService
	logger    zerolog.Logger
}

// NewNotificationService creates a new notification service instance.
// publisher may be nil when there is no realtime channel.
func NewNotificationService(store NotificationStore, publisher NotificationPublisher, authz *auth.AuthorizationService, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		store:     store,
		publisher: publisher,
		authz:     authz,
		logger:    logger,
	}
}

// Create persists n and pushes it to the recipient's open connections
func (s *notificationServiceImpl) Create(ctx context.Context, n *models.Notification) error {
	if n.UserID == "" || !n.UserType.Valid() {
		return fmt.Errorf("notification recipient is incomplete")
	}
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(n)
	}
	s.logger.Debug().
		Str("notificationID", n.ID.String()).
		Str("userType", string(n.UserType)).
		Str("type", string(n.Type)).
		Msg("Notification created")
	return nil
}

func (s *notificationServiceImpl) ListForRecipient(ctx context.Context, rcpt models.Recipient, page, size int) ([]*models.Notification, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.store.ListForRecipient(ctx, rcpt, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing notifications: %w", err)
	}
	return items, helpers.NewPaginationInfo(total, page, limit), nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, rcpt models.Recipient) (int64, error) {
	return s.store.CountUnread(ctx, rcpt)
}

// MarkRead flags the notification as read. Only its recipient may do so.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id uuid.UUID, rcpt models.Recipient) error {
	n, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateNotificationOwnership(n, rcpt); err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return s.store.MarkRead(ctx, id)
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, rcpt models.Recipient) (int64, error) {
	return s.store.MarkAllRead(ctx, rcpt)
}
