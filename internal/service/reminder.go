package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/whatsapp"
)

type ReminderKind string

const (
	ReminderCallUp ReminderKind = "CALL_UP"
	ReminderSurvey ReminderKind = "SKD_SURVEY"
)

type ReminderResult struct {
	QueueID int64        `json:"queue_id"`
	Kind    ReminderKind `json:"kind"`
	SentAt  time.Time    `json:"sent_at"`
}

// ReminderService sends WhatsApp messages to visitors and tracks the
// post-visit survey (SKD) flag.
type ReminderService struct {
	queues        QueueStore
	sender        whatsapp.Sender
	publisher     events.Publisher
	notifier      ChangeNotifier
	publicBaseURL string
	log           *zap.Logger
	now           func() time.Time
}

func NewReminderService(queues QueueStore, sender whatsapp.Sender, publisher events.Publisher, notifier ChangeNotifier, publicBaseURL string, log *zap.Logger) *ReminderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ReminderService{
		queues:        queues,
		sender:        sender,
		publisher:     publisher,
		notifier:      notifier,
		publicBaseURL: publicBaseURL,
		log:           log,
		now:           time.Now,
	}
}

func reminderMessage(kind ReminderKind, q models.QueueDetail, baseURL string) string {
	if kind == ReminderSurvey {
		msg := fmt.Sprintf("Halo %s, terima kasih telah berkunjung ke PST (antrian %s). "+
			"Mohon luangkan waktu mengisi Survei Kebutuhan Data.", q.VisitorName, q.QueueCode)
		if q.TempUUID != nil {
			msg += " " + baseURL + "/track/" + *q.TempUUID
		}
		return msg
	}
	return fmt.Sprintf("Halo %s, nomor antrian %s untuk layanan %s akan segera dipanggil. "+
		"Mohon bersiap di ruang tunggu PST.", q.VisitorName, q.QueueCode, q.ServiceName)
}

// Remind messages the visitor of a waiting entry (call-up) or of a
// completed entry whose survey is still open.
func (s *ReminderService) Remind(ctx context.Context, queueID int64, actor Actor) (ReminderResult, error) {
	if !helper.IsStaff(actor.Role) {
		return ReminderResult{}, apperr.Forbidden("hanya petugas yang dapat mengirim pengingat")
	}
	q, err := s.queues.GetByID(ctx, queueID)
	if err != nil {
		return ReminderResult{}, storeError(err, "antrian")
	}

	var kind ReminderKind
	switch {
	case q.Status == models.StatusWaiting:
		kind = ReminderCallUp
	case q.Status == models.StatusCompleted && !q.FilledSKD:
		kind = ReminderSurvey
	default:
		return ReminderResult{}, apperr.InvalidState("antrian " + q.QueueCode + " tidak memerlukan pengingat")
	}

	now := s.now()
	actorID := actor.UserID
	ev := events.Event{
		QueueID:     q.ID,
		QueueCode:   q.QueueCode,
		ServiceName: q.ServiceName,
		VisitorName: q.VisitorName,
		ActorID:     &actorID,
		OccurredAt:  now,
	}

	if err := s.sender.Send(ctx, q.VisitorPhone, reminderMessage(kind, q, s.publicBaseURL)); err != nil {
		s.log.Warn("reminder not delivered", zap.Int64("queue_id", q.ID), zap.Error(err))
		ev.Type, ev.Reason = events.ReminderFailed, err.Error()
		s.publish(ctx, ev)
		return ReminderResult{}, apperr.Dependency("gagal mengirim pesan WhatsApp", err)
	}

	if _, err := s.queues.MarkReminded(ctx, q.ID, actorID, now); err != nil {
		return ReminderResult{}, storeError(err, "antrian")
	}
	ev.Type = events.ReminderSent
	s.publish(ctx, ev)

	return ReminderResult{QueueID: q.ID, Kind: kind, SentAt: now}, nil
}

// MarkSKD records that the visitor of a completed entry filled the survey.
func (s *ReminderService) MarkSKD(ctx context.Context, queueID int64, actor Actor) (models.QueueDetail, error) {
	if !helper.IsStaff(actor.Role) {
		return models.QueueDetail{}, apperr.Forbidden("hanya petugas yang dapat mengubah status SKD")
	}
	ok, err := s.queues.MarkSKD(ctx, queueID, actor.UserID, s.now())
	if err != nil {
		return models.QueueDetail{}, storeError(err, "antrian")
	}
	q, err := s.queues.GetByID(ctx, queueID)
	if err != nil {
		return models.QueueDetail{}, storeError(err, "antrian")
	}
	// MySQL reports zero affected rows when the flag was already set.
	if !ok && !(q.Status == models.StatusCompleted && q.FilledSKD) {
		return models.QueueDetail{}, apperr.InvalidState("SKD hanya dapat dicatat untuk antrian yang selesai")
	}
	s.notifier.Notify()
	return q, nil
}

func (s *ReminderService) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish reminder event failed", zap.Error(err))
	}
}
