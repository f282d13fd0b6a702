// Package events carries queue domain events from the services to whoever
// reacts to them: the notification writer and, when configured, RabbitMQ.
package events

import (
	"context"
	"time"
)

type Type string

const (
	QueueCreated   Type = "queue.created"
	QueueServed    Type = "queue.served"
	QueueCompleted Type = "queue.completed"
	QueueCanceled  Type = "queue.canceled"
	ReminderSent   Type = "queue.reminder_sent"
	ReminderFailed Type = "queue.reminder_failed"
)

// Event is published after a queue change has been committed.
type Event struct {
	Type        Type      `json:"type"`
	QueueID     int64     `json:"queue_id"`
	QueueCode   string    `json:"queue_code"`
	ServiceName string    `json:"service_name,omitempty"`
	VisitorName string    `json:"visitor_name,omitempty"`
	ActorID     *int64    `json:"actor_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Handler reacts to one event. Returning an error rejects the delivery.
type Handler func(ctx context.Context, e Event) error
