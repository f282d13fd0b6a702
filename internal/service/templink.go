package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

// FormTokenIssuer signs the session token a visitor form is submitted with.
type FormTokenIssuer interface {
	GenerateVisitorFormToken(linkUUID string, linkExpiresAt time.Time) (string, time.Time, error)
}

type IssuedLink struct {
	UUID      string    `json:"uuid"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FormSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TempLinkService struct {
	links         TempLinkStore
	tokens        FormTokenIssuer
	ttl           time.Duration
	publicBaseURL string
	log           *zap.Logger
	now           func() time.Time
}

func NewTempLinkService(links TempLinkStore, tokens FormTokenIssuer, ttl time.Duration, publicBaseURL string, log *zap.Logger) *TempLinkService {
	return &TempLinkService{
		links:         links,
		tokens:        tokens,
		ttl:           ttl,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
		now:           time.Now,
	}
}

// Issue creates a fresh one-time link, typically rendered as a QR code at
// the desk.
func (s *TempLinkService) Issue(ctx context.Context, actor Actor) (IssuedLink, error) {
	if !helper.IsStaff(actor.Role) {
		return IssuedLink{}, apperr.Forbidden("hanya petugas yang dapat membuat link")
	}
	now := s.now()
	createdBy := actor.UserID
	link := models.TempVisitorLink{
		UUID:      uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
		CreatedBy: &createdBy,
		CreatedAt: now,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return IssuedLink{}, storeError(err, "link")
	}
	s.log.Info("temp visitor link issued", zap.String("uuid", link.UUID), zap.Int64("created_by", createdBy))
	return IssuedLink{
		UUID:      link.UUID,
		URL:       s.publicBaseURL + "/visitor-form/" + link.UUID,
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// Open validates a scanned link and starts a form session. The link itself
// is only consumed when the form is submitted.
func (s *TempLinkService) Open(ctx context.Context, linkUUID string) (FormSession, error) {
	invalid := apperr.New(apperr.KindValidation, apperr.CodeInvalidLink, "link tidak valid, kedaluwarsa, atau sudah digunakan")

	if _, err := uuid.Parse(linkUUID); err != nil {
		return FormSession{}, invalid
	}
	link, err := s.links.Get(ctx, linkUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return FormSession{}, invalid
	}
	if err != nil {
		return FormSession{}, storeError(err, "link")
	}
	if !link.Usable(s.now()) {
		return FormSession{}, invalid
	}

	token, exp, err := s.tokens.GenerateVisitorFormToken(link.UUID, link.ExpiresAt)
	if err != nil {
		return FormSession{}, apperr.Internal("gagal membuat sesi formulir", err)
	}
	return FormSession{Token: token, ExpiresAt: exp}, nil
}
