package models

import (
	"fmt"
	"time"
)

type QueueStatus string

const (
	StatusWaiting   QueueStatus = "WAITING"
	StatusServing   QueueStatus = "SERVING"
	StatusCompleted QueueStatus = "COMPLETED"
	StatusCanceled  QueueStatus = "CANCELED"
)

func (s QueueStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusServing, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

func (s QueueStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

type QueueType string

const (
	QueueTypeGuest       QueueType = "GUEST"
	QueueTypeVisitorForm QueueType = "VISITOR_FORM"
)

// AllStatuses is the display order used by aggregates.
var AllStatuses = []QueueStatus{StatusWaiting, StatusServing, StatusCompleted, StatusCanceled}

type Queue struct {
	ID             int64       `json:"id"`
	QueueNumber    int         `json:"queue_number"`
	QueueDate      string      `json:"queue_date"` // YYYY-MM-DD, local service day
	QueueCode      string      `json:"queue_code"`
	Status         QueueStatus `json:"status"`
	QueueType      QueueType   `json:"queue_type"`
	VisitorID      int64       `json:"visitor_id"`
	ServiceID      int64       `json:"service_id"`
	AdminID        *int64      `json:"admin_id"`
	TempUUID       *string     `json:"temp_uuid,omitempty"`
	TrackingLink   *string     `json:"tracking_link,omitempty"`
	FilledSKD      bool        `json:"filled_skd"`
	CreatedAt      time.Time   `json:"created_at"`
	StartTime      *time.Time  `json:"start_time"`
	EndTime        *time.Time  `json:"end_time"`
	LastReminderAt *time.Time  `json:"last_reminder_at,omitempty"`
}

// QueueDetail is a queue row joined with the names clients render.
type QueueDetail struct {
	Queue
	VisitorName  string `json:"visitor_name"`
	VisitorPhone string `json:"visitor_phone"`
	ServiceName  string `json:"service_name"`
	ServiceCode  string `json:"service_code"`
	AdminName    string `json:"admin_name,omitempty"`
}

// CheckInvariants verifies the timestamp rules tied to each status.
func (q Queue) CheckInvariants() error {
	switch q.Status {
	case StatusWaiting:
		if q.StartTime != nil || q.EndTime != nil {
			return fmt.Errorf("queue %d: WAITING must not have start/end time", q.ID)
		}
	case StatusServing:
		if q.StartTime == nil {
			return fmt.Errorf("queue %d: SERVING requires start_time", q.ID)
		}
		if q.EndTime != nil {
			return fmt.Errorf("queue %d: SERVING must not have end_time", q.ID)
		}
	case StatusCompleted, StatusCanceled:
		if q.EndTime == nil {
			return fmt.Errorf("queue %d: %s requires end_time", q.ID, q.Status)
		}
	default:
		return fmt.Errorf("queue %d: unknown status %q", q.ID, q.Status)
	}
	return nil
}

// FormatQueueCode renders the human-readable ticket, e.g. KS007.
func FormatQueueCode(serviceCode string, number int) string {
	if serviceCode == "" {
		serviceCode = "Q"
	}
	return fmt.Sprintf("%s%03d", serviceCode, number)
}

type QueueEvent string

const (
	EventTake     QueueEvent = "take"
	EventServe    QueueEvent = "serve"
	EventComplete QueueEvent = "complete"
	EventCancel   QueueEvent = "cancel"
	EventRemind   QueueEvent = "remind"
	EventSKD      QueueEvent = "skd"
)
