package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

// LifecycleService moves queue entries through
// WAITING -> SERVING -> COMPLETED, with CANCELED reachable from the first two.
type LifecycleService struct {
	queues    QueueStore
	users     UserStore
	publisher events.Publisher
	notifier  ChangeNotifier
	log       *zap.Logger
	now       func() time.Time
}

func NewLifecycleService(queues QueueStore, users UserStore, publisher events.Publisher, notifier ChangeNotifier, log *zap.Logger) *LifecycleService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LifecycleService{
		queues:    queues,
		users:     users,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Serve assigns the queue to the acting admin and starts the service clock.
func (s *LifecycleService) Serve(ctx context.Context, queueID int64, actor Actor) (models.QueueDetail, error) {
	if !helper.IsStaff(actor.Role) {
		return models.QueueDetail{}, apperr.Forbidden("hanya petugas yang dapat memanggil antrian")
	}

	admin, err := s.users.GetByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && admin.IsBanned == "y") {
		return models.QueueDetail{}, apperr.New(apperr.KindReferential, apperr.CodeInvalidAdmin, "petugas tidak valid")
	}
	if err != nil {
		return models.QueueDetail{}, storeError(err, "petugas")
	}

	adminID := actor.UserID
	return s.apply(ctx, repository.Transition{
		QueueID:     queueID,
		From:        []models.QueueStatus{models.StatusWaiting},
		To:          models.StatusServing,
		ActorID:     actor.UserID,
		Event:       models.EventServe,
		AssignAdmin: &adminID,
	}, events.QueueServed)
}

// Complete ends service. Only the serving admin or a superadmin may do it.
func (s *LifecycleService) Complete(ctx context.Context, queueID int64, actor Actor) (models.QueueDetail, error) {
	if !helper.IsStaff(actor.Role) {
		return models.QueueDetail{}, apperr.Forbidden("hanya petugas yang dapat menyelesaikan antrian")
	}
	return s.apply(ctx, repository.Transition{
		QueueID: queueID,
		From:    []models.QueueStatus{models.StatusServing},
		To:      models.StatusCompleted,
		ActorID: actor.UserID,
		Event:   models.EventComplete,
		SetEnd:  true,
		OwnerID: ownerFilter(actor),
	}, events.QueueCompleted)
}

// Cancel drops a waiting or serving entry. Unassigned entries may be
// canceled by any staff member; assigned ones follow the Complete rule.
func (s *LifecycleService) Cancel(ctx context.Context, queueID int64, actor Actor) (models.QueueDetail, error) {
	if !helper.IsStaff(actor.Role) {
		return models.QueueDetail{}, apperr.Forbidden("hanya petugas yang dapat membatalkan antrian")
	}
	return s.apply(ctx, repository.Transition{
		QueueID:         queueID,
		From:            []models.QueueStatus{models.StatusWaiting, models.StatusServing},
		To:              models.StatusCanceled,
		ActorID:         actor.UserID,
		Event:           models.EventCancel,
		SetEnd:          true,
		OwnerID:         ownerFilter(actor),
		AllowUnassigned: true,
	}, events.QueueCanceled)
}

func ownerFilter(actor Actor) *int64 {
	if helper.IsElevated(actor.Role) {
		return nil
	}
	id := actor.UserID
	return &id
}

func (s *LifecycleService) apply(ctx context.Context, t repository.Transition, eventType events.Type) (models.QueueDetail, error) {
	t.At = s.now()

	ok, err := s.queues.Apply(ctx, t)
	if err != nil {
		return models.QueueDetail{}, storeError(err, "antrian")
	}
	if !ok {
		return models.QueueDetail{}, s.classifyRejected(ctx, t)
	}

	q, err := s.queues.GetByID(ctx, t.QueueID)
	if err != nil {
		return models.QueueDetail{}, storeError(err, "antrian")
	}

	s.log.Info("queue transitioned",
		zap.Int64("queue_id", q.ID),
		zap.String("queue_code", q.QueueCode),
		zap.String("status", string(q.Status)),
		zap.Int64("actor_id", t.ActorID))

	actor := t.ActorID
	s.publish(ctx, events.Event{
		Type:        eventType,
		QueueID:     q.ID,
		QueueCode:   q.QueueCode,
		ServiceName: q.ServiceName,
		VisitorName: q.VisitorName,
		ActorID:     &actor,
		OccurredAt:  t.At,
	})
	s.notifier.Notify()
	return q, nil
}

// classifyRejected re-reads a row whose conditional update matched nothing.
func (s *LifecycleService) classifyRejected(ctx context.Context, t repository.Transition) error {
	q, err := s.queues.GetByID(ctx, t.QueueID)
	if err != nil {
		return storeError(err, "antrian")
	}
	if !slices.Contains(t.From, q.Status) {
		return apperr.InvalidState("status antrian " + string(q.Status) + " tidak dapat diubah menjadi " + string(t.To)).
			WithDetails(map[string]string{"current_status": string(q.Status)})
	}
	return apperr.Forbidden("antrian sedang dilayani petugas lain")
}

func (s *LifecycleService) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish queue event failed", zap.String("type", string(e.Type)), zap.Error(err))
	}
}
