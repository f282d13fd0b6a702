// Package service holds the queue business rules. Services depend on the
// narrow store interfaces below so that tests can run against in-memory
// fakes; the MySQL implementations live in package repository.
package service

import (
	"context"
	"time"

	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

type QueueStore interface {
	CreateWithVisitor(ctx context.Context, rec repository.IntakeRecord) (models.Queue, error)
	GetByID(ctx context.Context, id int64) (models.QueueDetail, error)
	GetByTempUUID(ctx context.Context, uuid string) (models.QueueDetail, error)
	Apply(ctx context.Context, t repository.Transition) (bool, error)
	MarkSKD(ctx context.Context, id, actorID int64, at time.Time) (bool, error)
	MarkReminded(ctx context.Context, id, actorID int64, at time.Time) (bool, error)
	List(ctx context.Context, f repository.QueueFilter) ([]models.QueueDetail, int, error)
	Timings(ctx context.Context, from, to time.Time) ([]repository.QueueTiming, error)
	WaitingAhead(ctx context.Context, queueDate string, number int) (int, error)
}

type ServiceStore interface {
	List(ctx context.Context, status models.ServiceStatus) ([]models.Service, error)
	GetByID(ctx context.Context, id int64) (models.Service, error)
	Create(ctx context.Context, s models.Service) (models.Service, error)
	Update(ctx context.Context, s models.Service) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListUnread(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type TempLinkStore interface {
	Create(ctx context.Context, l models.TempVisitorLink) error
	Get(ctx context.Context, uuid string) (models.TempVisitorLink, error)
}

type ConfigStore interface {
	Get(ctx context.Context) (models.Config, error)
	Upsert(ctx context.Context, jamBuka, jamTutup string) (models.Config, error)
}

// ChangeNotifier is told whenever queue data visible on the public display
// may have changed.
type ChangeNotifier interface {
	Notify()
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	UserID int64
	Role   string
}

type nopNotifier struct{}

func (nopNotifier) Notify() {}
