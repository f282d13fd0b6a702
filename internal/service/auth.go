package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

type TokenIssuer interface {
	GenerateToken(userID int64, nama, email, role string) (string, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	users   UserStore
	tokens  TokenIssuer
	captcha CaptchaVerifier
	log     *zap.Logger
}

// NewAuthService wires login. A nil captcha disables the reCAPTCHA check.
func NewAuthService(users UserStore, tokens TokenIssuer, captcha CaptchaVerifier, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, captcha: captcha, log: log}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return models.LoginResponse{}, apperr.Validation("email dan password wajib diisi")
	}

	if s.captcha != nil {
		if req.RecaptchaToken == "" {
			return models.LoginResponse{}, apperr.Validation("reCAPTCHA wajib diisi")
		}
		ok, err := s.captcha.Verify(ctx, req.RecaptchaToken)
		if err != nil {
			return models.LoginResponse{}, apperr.Dependency("gagal verifikasi reCAPTCHA", err)
		}
		if !ok {
			return models.LoginResponse{}, apperr.Validation("verifikasi reCAPTCHA gagal")
		}
	}

	invalid := apperr.Unauthorized("email atau password salah")
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.LoginResponse{}, invalid
	}
	if err != nil {
		return models.LoginResponse{}, storeError(err, "pengguna")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.log.Info("login rejected", zap.String("email", email))
		return models.LoginResponse{}, invalid
	}
	if user.IsBanned == "y" {
		return models.LoginResponse{}, apperr.Forbidden("akun Anda telah dinonaktifkan")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Nama, user.Email, user.Role)
	if err != nil {
		return models.LoginResponse{}, apperr.Internal("gagal membuat token", err)
	}
	s.log.Info("login success", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return models.LoginResponse{Token: token, User: models.ToUserResponse(user)}, nil
}

// Me returns the current profile of an authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.UserResponse{}, storeError(err, "pengguna")
	}
	if user.IsBanned == "y" {
		return models.UserResponse{}, apperr.Forbidden("akun Anda telah dinonaktifkan")
	}
	return models.ToUserResponse(user), nil
}
