package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/models"
)

func TestMarkAllRead_ScopedToUserAndBroadcast(t *testing.T) {
	store := &memNotifications{}
	svc := NewNotificationService(store, zap.NewNop())
	ctx := context.Background()

	_, _ = store.Create(ctx, models.Notification{Title: "broadcast"})
	_, _ = store.Create(ctx, models.Notification{Title: "untuk 7", UserID: ptr(int64(7))})
	_, _ = store.Create(ctx, models.Notification{Title: "untuk 8", UserID: ptr(int64(8))})

	n, err := svc.MarkAllRead(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := svc.Unread(ctx, 8, "")
	require.NoError(t, err)
	require.Len(t, left.Notifications, 1)
	assert.Equal(t, "untuk 8", left.Notifications[0].Title)
}

func TestMarkRead_OtherUsersNotificationIsNotFound(t *testing.T) {
	store := &memNotifications{}
	svc := NewNotificationService(store, zap.NewNop())
	ctx := context.Background()

	own, _ := store.Create(ctx, models.Notification{Title: "untuk 8", UserID: ptr(int64(8))})

	err := svc.MarkRead(ctx, own.ID, 7)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, svc.MarkRead(ctx, own.ID, 8))
}

func TestUnread_Hash(t *testing.T) {
	store := &memNotifications{}
	svc := NewNotificationService(store, zap.NewNop())
	ctx := context.Background()
	_, _ = store.Create(ctx, models.Notification{Title: "a"})

	first, err := svc.Unread(ctx, 1, "")
	require.NoError(t, err)
	assert.True(t, first.HasChanges)
	assert.Equal(t, 1, first.UnreadCount)

	second, err := svc.Unread(ctx, 1, first.Hash)
	require.NoError(t, err)
	assert.False(t, second.HasChanges)
}

func TestHandleEvent(t *testing.T) {
	store := &memNotifications{}
	svc := NewNotificationService(store, zap.NewNop())
	svc.now = fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc))
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, events.Event{
		Type: events.QueueCreated, QueueID: 1, QueueCode: "KS001", VisitorName: "Budi", ServiceName: "Konsultasi Statistik",
	}))
	require.NoError(t, svc.HandleEvent(ctx, events.Event{Type: events.QueueServed, QueueID: 1}))
	require.NoError(t, svc.HandleEvent(ctx, events.Event{
		Type: events.ReminderFailed, QueueID: 1, QueueCode: "KS001", Reason: "nomor tidak terdaftar",
	}))

	require.Len(t, store.rows, 2)
	assert.Equal(t, models.NotificationQueueCreated, store.rows[0].Type)
	assert.Equal(t, "KS001 - Budi (Konsultasi Statistik)", store.rows[0].Message)
	assert.Nil(t, store.rows[0].UserID)
	assert.Equal(t, models.NotificationReminderFail, store.rows[1].Type)
	assert.Contains(t, store.rows[1].Message, "nomor tidak terdaftar")
}
