package models

import "time"

const (
	NotificationQueueCreated  = "QUEUE_CREATED"
	NotificationQueueCanceled = "QUEUE_CANCELED"
	NotificationReminderSent  = "REMINDER_SENT"
	NotificationReminderFail  = "REMINDER_FAILED"
)

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	UserID    *int64    `json:"user_id"` // nil: broadcast to all staff
	CreatedAt time.Time `json:"created_at"`
}
