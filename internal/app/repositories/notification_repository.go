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
	"github.com/yigit/stallhub/internal/pkg/logger"
)

var notificationColumns = []string{
	"id", "user_id", "user_type", "notification_type", "title", "message",
	"related_event_id", "related_application_id", "is_read", "created_at",
}

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.UserType, &n.Type, &n.Title, &n.Message,
		&n.RelatedEventID, &n.RelatedApplicationID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func recipientWhere(rcpt models.Recipient) squirrel.Eq {
	return squirrel.Eq{"user_id": rcpt.UserID, "user_type": rcpt.UserType}
}

// Create inserts a notification and fills in its generated fields
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "user_type", "notification_type", "title", "message", "related_event_id", "related_application_id").
		Values(n.UserID, n.UserType, n.Type, n.Title, n.Message, n.RelatedEventID, n.RelatedApplicationID).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create notification SQL")
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Str("userID", n.UserID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	sql, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get notification SQL")
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}

	n, err := scanNotification(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		logger.Error().Err(err).Str("notificationID", id.String()).Msg("Error scanning notification row")
		return nil, fmt.Errorf("error getting notification: %w", err)
	}
	return n, nil
}

// ListForRecipient returns a page of the recipient's notifications, newest first
func (r *NotificationRepository) ListForRecipient(ctx context.Context, rcpt models.Recipient, offset uint64, limit int) ([]*models.Notification, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("notifications").Where(recipientWhere(rcpt)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count notifications SQL")
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count notifications query")
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}
	if total == 0 {
		return []*models.Notification{}, 0, nil
	}

	sql, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(recipientWhere(rcpt)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notifications SQL")
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notifications query")
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Notification, 0, limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning notification row")
			return nil, 0, fmt.Errorf("error scanning notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database iteration error: %w", err)
	}
	return out, total, nil
}

// CountUnread returns how many unread notifications the recipient has
func (r *NotificationRepository) CountUnread(ctx context.Context, rcpt models.Recipient) (int64, error) {
	where := recipientWhere(rcpt)
	where["is_read"] = false

	sql, args, err := r.sb.Select("COUNT(*)").From("notifications").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count unread SQL")
		return 0, fmt.Errorf("failed to build count unread query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count unread query")
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark read SQL")
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("notificationID", id.String()).Msg("Error executing mark read query")
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, rcpt models.Recipient) (int64, error) {
	where := recipientWhere(rcpt)
	where["is_read"] = false

	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark all read SQL")
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", rcpt.UserID).Msg("Error executing mark all read query")
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
