package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type RecaptchaResponse struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
	Action  string  `json:"action"`
}

type RecaptchaVerifier struct {
	client    *resty.Client
	secretKey string
	minScore  float64
}

// NewRecaptchaVerifier returns nil when no secret is configured, which
// disables the check on login.
func NewRecaptchaVerifier(cfg RecaptchaConfig) *RecaptchaVerifier {
	if cfg.SecretKey == "" {
		return nil
	}
	return &RecaptchaVerifier{
		client:    resty.New().SetTimeout(5 * time.Second),
		secretKey: cfg.SecretKey,
		minScore:  cfg.MinScore,
	}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (bool, error) {
	var result RecaptchaResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secretKey,
			"response": token,
		}).
		SetResult(&result).
		Post(recaptchaVerifyURL)
	if err != nil {
		return false, err
	}
	if resp.IsError() {
		return false, fmt.Errorf("recaptcha: status %d", resp.StatusCode())
	}
	return result.Success && result.Score >= v.minScore, nil
}
