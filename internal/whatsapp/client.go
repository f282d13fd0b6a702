// Package whatsapp sends visitor messages through a Fonnte-compatible
// WhatsApp gateway.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/config"
)

var ErrNotConfigured = errors.New("whatsapp gateway belum dikonfigurasi")

type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

type sendResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

type Client struct {
	http   *resty.Client
	token  string
	logger *zap.Logger
}

func NewClient(cfg config.WhatsAppConfig, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: http, token: cfg.Token, logger: logger}
}

// NormalizePhone converts local 08xx numbers to the 628xx form the gateway
// expects.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		return "62" + phone[1:]
	}
	return phone
}

func (c *Client) Send(ctx context.Context, phone, message string) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	target := NormalizePhone(phone)

	var out sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", c.token).
		SetFormData(map[string]string{
			"target":      target,
			"message":     message,
			"countryCode": "62",
		}).
		SetResult(&out).
		Post("/send")
	if err != nil {
		c.logger.Error("whatsapp send failed", zap.String("target", target), zap.Error(err))
		return fmt.Errorf("whatsapp send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp gateway status %d", resp.StatusCode())
	}
	if !out.Status {
		c.logger.Warn("whatsapp gateway rejected message",
			zap.String("target", target),
			zap.String("reason", out.Reason))
		return fmt.Errorf("whatsapp gateway: %s", out.Reason)
	}

	c.logger.Info("whatsapp message sent", zap.String("target", target))
	return nil
}
