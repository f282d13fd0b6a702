package service

import (
	"context"
	"errors"
	"time"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

type OpeningHours struct {
	models.Config
	IsOpen bool `json:"is_open"`
}

type OpeningHoursService struct {
	store ConfigStore
	loc   *time.Location
	now   func() time.Time
}

func NewOpeningHoursService(store ConfigStore, loc *time.Location) *OpeningHoursService {
	return &OpeningHoursService{store: store, loc: loc, now: time.Now}
}

func (s *OpeningHoursService) Get(ctx context.Context) (OpeningHours, error) {
	cfg, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return OpeningHours{}, apperr.NotFound("konfigurasi belum diatur")
	}
	if err != nil {
		return OpeningHours{}, storeError(err, "konfigurasi")
	}
	return OpeningHours{
		Config: cfg,
		IsOpen: cfg.OpenAt(s.now(), s.loc),
	}, nil
}

func (s *OpeningHoursService) Update(ctx context.Context, req models.UpdateConfigRequest) (OpeningHours, error) {
	req = req.Normalized()
	if !helper.ValidClock(req.JamBuka) || !helper.ValidClock(req.JamTutup) {
		return OpeningHours{}, apperr.Validation("format waktu harus HH:MM:SS (contoh: 08:00:00)")
	}
	if req.JamBuka == req.JamTutup {
		return OpeningHours{}, apperr.Validation("jam buka dan jam tutup tidak boleh sama")
	}
	cfg, err := s.store.Upsert(ctx, req.JamBuka, req.JamTutup)
	if err != nil {
		return OpeningHours{}, storeError(err, "konfigurasi")
	}
	return OpeningHours{
		Config: cfg,
		IsOpen: cfg.OpenAt(s.now(), s.loc),
	}, nil
}
