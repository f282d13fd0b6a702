package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

// QueueCreated is returned by both intake paths.
type QueueCreated struct {
	Queue        models.Queue `json:"queue"`
	QueueCode    string       `json:"queue_code"`
	ServiceName  string       `json:"service_name"`
	TrackingLink *string      `json:"tracking_link,omitempty"`
}

type IntakeService struct {
	queues        QueueStore
	services      ServiceStore
	configs       ConfigStore
	validate      *validator.Validate
	publisher     events.Publisher
	notifier      ChangeNotifier
	log           *zap.Logger
	loc           *time.Location
	publicBaseURL string
	now           func() time.Time
}

type IntakeDeps struct {
	Queues        QueueStore
	Services      ServiceStore
	Configs       ConfigStore
	Validate      *validator.Validate
	Publisher     events.Publisher
	Notifier      ChangeNotifier
	Log           *zap.Logger
	Location      *time.Location
	PublicBaseURL string
}

func NewIntakeService(d IntakeDeps) *IntakeService {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Validate == nil {
		d.Validate = NewValidator()
	}
	return &IntakeService{
		queues:        d.Queues,
		services:      d.Services,
		configs:       d.Configs,
		validate:      d.Validate,
		publisher:     d.Publisher,
		notifier:      d.Notifier,
		log:           d.Log,
		loc:           d.Location,
		publicBaseURL: strings.TrimRight(d.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

// SubmitGuest registers a visitor entered by staff at the desk. Opening
// hours do not apply.
func (s *IntakeService) SubmitGuest(ctx context.Context, form models.VisitorForm, actor Actor) (QueueCreated, error) {
	if !helper.IsStaff(actor.Role) {
		return QueueCreated{}, apperr.Forbidden("hanya petugas yang dapat menambah tamu")
	}
	actorID := actor.UserID
	return s.submit(ctx, form, intakeOptions{queueType: models.QueueTypeGuest, actorID: &actorID})
}

// SubmitVisitorForm registers a self-service visitor and consumes the
// one-time link the form was opened from.
func (s *IntakeService) SubmitVisitorForm(ctx context.Context, form models.VisitorForm, linkUUID string) (QueueCreated, error) {
	if linkUUID == "" {
		return QueueCreated{}, apperr.New(apperr.KindValidation, apperr.CodeInvalidLink, "link formulir tidak valid")
	}
	open, err := s.isOpen(ctx)
	if err != nil {
		return QueueCreated{}, err
	}
	if !open {
		return QueueCreated{}, apperr.New(apperr.KindValidation, apperr.CodeQueueClosed, "layanan antrian sedang tutup")
	}
	return s.submit(ctx, form, intakeOptions{queueType: models.QueueTypeVisitorForm, linkUUID: linkUUID})
}

type intakeOptions struct {
	queueType models.QueueType
	actorID   *int64
	linkUUID  string
}

func (s *IntakeService) submit(ctx context.Context, form models.VisitorForm, opt intakeOptions) (QueueCreated, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := validateStruct(s.validate, form); err != nil {
		return QueueCreated{}, err
	}

	svc, err := s.services.GetByID(ctx, form.ServiceID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && svc.Status != models.ServiceActive) {
		return QueueCreated{}, apperr.New(apperr.KindValidation, apperr.CodeNoActiveService, "layanan tidak tersedia")
	}
	if err != nil {
		return QueueCreated{}, storeError(err, "layanan")
	}

	now := s.now()
	visitor := form.Visitor()
	visitor.CreatedAt = now

	rec := repository.IntakeRecord{
		Visitor:     visitor,
		ServiceID:   svc.ID,
		ServiceCode: svc.Code,
		QueueType:   opt.queueType,
		QueueDate:   helper.LocalDate(now, s.loc),
		CreatedAt:   now,
		ActorID:     opt.actorID,
		LinkUUID:    opt.linkUUID,
	}
	if opt.linkUUID != "" {
		uuid := opt.linkUUID
		link := s.publicBaseURL + "/track/" + uuid
		rec.TempUUID = &uuid
		rec.TrackingLink = &link
	}

	q, err := s.queues.CreateWithVisitor(ctx, rec)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return QueueCreated{}, apperr.Wrap(apperr.KindConflict, apperr.CodeDuplicateQueueNumber,
			"nomor antrian bentrok, silakan coba lagi", err)
	case errors.Is(err, repository.ErrLinkUnavailable):
		return QueueCreated{}, apperr.New(apperr.KindValidation, apperr.CodeInvalidLink,
			"link formulir sudah digunakan atau kedaluwarsa")
	case err != nil:
		return QueueCreated{}, storeError(err, "antrian")
	}

	s.log.Info("queue created",
		zap.Int64("queue_id", q.ID),
		zap.String("queue_code", q.QueueCode),
		zap.String("queue_type", string(q.QueueType)))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.Event{
			Type:        events.QueueCreated,
			QueueID:     q.ID,
			QueueCode:   q.QueueCode,
			ServiceName: svc.Name,
			VisitorName: visitor.Name,
			ActorID:     opt.actorID,
			OccurredAt:  now,
		}); err != nil {
			s.log.Warn("publish queue event failed", zap.Error(err))
		}
	}
	s.notifier.Notify()

	return QueueCreated{
		Queue:        q,
		QueueCode:    q.QueueCode,
		ServiceName:  svc.Name,
		TrackingLink: q.TrackingLink,
	}, nil
}

// isOpen treats a missing opening-hours row as always open.
func (s *IntakeService) isOpen(ctx context.Context) (bool, error) {
	cfg, err := s.configs.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, storeError(err, "konfigurasi")
	}
	return cfg.OpenAt(s.now(), s.loc), nil
}
