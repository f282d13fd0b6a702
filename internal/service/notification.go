package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/changehash"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/models"
)

const unreadLimit = 50

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
	Hash          string                `json:"hash"`
	HasChanges    bool                  `json:"has_changes"`
}

type NotificationService struct {
	store NotificationStore
	log   *zap.Logger
	now   func() time.Time
}

func NewNotificationService(store NotificationStore, log *zap.Logger) *NotificationService {
	return &NotificationService{store: store, log: log, now: time.Now}
}

// Unread lists what userID has not read yet, including broadcasts.
func (s *NotificationService) Unread(ctx context.Context, userID int64, prevHash string) (NotificationList, error) {
	list, err := s.store.ListUnread(ctx, userID, unreadLimit)
	if err != nil {
		return NotificationList{}, storeError(err, "notifikasi")
	}
	out := NotificationList{Notifications: list, UnreadCount: len(list)}
	out.Hash, out.HasChanges, err = changehash.HasChanged(prevHash, list)
	if err != nil {
		return NotificationList{}, apperr.Internal("gagal menghitung hash", err)
	}
	return out, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, storeError(err, "notifikasi")
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return storeError(s.store.MarkRead(ctx, id, userID), "notifikasi")
}

// HandleEvent turns queue events into broadcast notifications for staff.
// Serve and complete are visible on the dashboard already and are skipped.
func (s *NotificationService) HandleEvent(ctx context.Context, e events.Event) error {
	n := models.Notification{CreatedAt: s.now()}
	switch e.Type {
	case events.QueueCreated:
		n.Type = models.NotificationQueueCreated
		n.Title = "Antrian baru"
		n.Message = e.QueueCode + " - " + e.VisitorName + " (" + e.ServiceName + ")"
	case events.QueueCanceled:
		n.Type = models.NotificationQueueCanceled
		n.Title = "Antrian dibatalkan"
		n.Message = "Antrian " + e.QueueCode + " dibatalkan"
	case events.ReminderSent:
		n.Type = models.NotificationReminderSent
		n.Title = "Pengingat terkirim"
		n.Message = "Pengingat WhatsApp untuk " + e.QueueCode + " terkirim"
	case events.ReminderFailed:
		n.Type = models.NotificationReminderFail
		n.Title = "Pengingat gagal"
		n.Message = "Pengingat WhatsApp untuk " + e.QueueCode + " gagal: " + e.Reason
	default:
		return nil
	}

	if _, err := s.store.Create(ctx, n); err != nil {
		s.log.Error("create notification failed", zap.String("type", n.Type), zap.Error(err))
		return err
	}
	return nil
}
