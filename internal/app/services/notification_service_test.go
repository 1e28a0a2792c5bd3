package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
)

func seedNotifications(t *testing.T, f *fixture, rcpt models.Recipient, n int) []*models.Notification {
	t.Helper()
	out := make([]*models.Notification, 0, n)
	for i := 0; i < n; i++ {
		note := &models.Notification{
			UserID:   rcpt.UserID,
			UserType: rcpt.UserType,
			Type:     models.NotificationApplicationReceived,
			Title:    "新しい出店申し込み",
		}
		require.NoError(t, f.notifications.Create(context.Background(), note))
		out = append(out, note)
	}
	return out
}

func TestNotificationCreatePublishes(t *testing.T) {
	f := newFixture(false)
	rcpt := models.Recipient{UserID: "org-user", UserType: models.RoleOrganizer}
	notes := seedNotifications(t, f, rcpt, 1)

	assert.NotEqual(t, uuid.Nil, notes[0].ID)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, notes[0].ID, f.publisher.published[0].ID)
}

func TestNotificationCreateRejectsIncompleteRecipient(t *testing.T) {
	f := newFixture(false)
	err := f.notifications.Create(context.Background(), &models.Notification{UserType: models.RoleOrganizer})
	assert.Error(t, err)
	assert.Empty(t, f.publisher.published)
}

func TestNotificationListAndUnread(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	rcpt := models.Recipient{UserID: "org-user", UserType: models.RoleOrganizer}
	seedNotifications(t, f, rcpt, 3)
	seedNotifications(t, f, models.Recipient{UserID: "org-user", UserType: models.RoleExhibitor}, 2)

	items, page, err := f.notifications.ListForRecipient(ctx, rcpt, 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)

	count, err := f.notifications.UnreadCount(ctx, rcpt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	updated, err := f.notifications.MarkAllRead(ctx, rcpt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, err = f.notifications.UnreadCount(ctx, rcpt)
	require.NoError(t, err)
	assert.Zero(t, count)

	other, err := f.notifications.UnreadCount(ctx, models.Recipient{UserID: "org-user", UserType: models.RoleExhibitor})
	require.NoError(t, err)
	assert.Equal(t, int64(2), other)
}

func TestNotificationMarkReadOnlyByRecipient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	rcpt := models.Recipient{UserID: "org-user", UserType: models.RoleOrganizer}
	note := seedNotifications(t, f, rcpt, 1)[0]

	err := f.notifications.MarkRead(ctx, note.ID, models.Recipient{UserID: "someone", UserType: models.RoleOrganizer})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.False(t, f.db.notifications[note.ID].IsRead)

	require.NoError(t, f.notifications.MarkRead(ctx, note.ID, rcpt))
	assert.True(t, f.db.notifications[note.ID].IsRead)

	// already read is a no-op
	require.NoError(t, f.notifications.MarkRead(ctx, note.ID, rcpt))

	err = f.notifications.MarkRead(ctx, uuid.New(), rcpt)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}
