package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

// CatalogService administers the services visitors can queue for.
type CatalogService struct {
	store    ServiceStore
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewCatalogService(store ServiceStore, validate *validator.Validate, log *zap.Logger) *CatalogService {
	if validate == nil {
		validate = NewValidator()
	}
	return &CatalogService{store: store, validate: validate, log: log, now: time.Now}
}

func (s *CatalogService) List(ctx context.Context, onlyActive bool) ([]models.Service, error) {
	var status models.ServiceStatus
	if onlyActive {
		status = models.ServiceActive
	}
	list, err := s.store.List(ctx, status)
	if err != nil {
		return nil, storeError(err, "layanan")
	}
	return list, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (models.Service, error) {
	svc, err := s.store.GetByID(ctx, id)
	return svc, storeError(err, "layanan")
}

func duplicateCode(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Wrap(apperr.KindConflict, apperr.CodeValidation, "kode layanan sudah digunakan", err)
	}
	return storeError(err, "layanan")
}

func (s *CatalogService) Create(ctx context.Context, req models.CreateServiceRequest) (models.Service, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(s.validate, req); err != nil {
		return models.Service{}, err
	}

	status := models.ServiceStatus(req.Status)
	if status == "" {
		status = models.ServiceActive
	}
	now := s.now()
	svc, err := s.store.Create(ctx, models.Service{
		Code:      req.Code,
		Name:      req.Name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Service{}, duplicateCode(err)
	}
	s.log.Info("service created", zap.Int64("service_id", svc.ID), zap.String("code", svc.Code))
	return svc, nil
}

// Update applies the non-empty fields of req.
func (s *CatalogService) Update(ctx context.Context, id int64, req models.UpdateServiceRequest) (models.Service, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(s.validate, req); err != nil {
		return models.Service{}, err
	}

	svc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Service{}, storeError(err, "layanan")
	}
	if req.Code != "" {
		svc.Code = req.Code
	}
	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.Status != "" {
		svc.Status = models.ServiceStatus(req.Status)
	}
	svc.UpdatedAt = s.now()

	if err := s.store.Update(ctx, svc); err != nil {
		return models.Service{}, duplicateCode(err)
	}
	return svc, nil
}

// Delete removes a service; services referenced by queue entries stay and
// should be set INACTIVE instead.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return apperr.Wrap(apperr.KindConflict, apperr.CodeInUse,
			"layanan sudah memiliki antrian, nonaktifkan saja", err)
	}
	return storeError(err, "layanan")
}
