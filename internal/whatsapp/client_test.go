package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/config"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "6281234567890", NormalizePhone("081234567890"))
	assert.Equal(t, "6281234567890", NormalizePhone("+6281234567890"))
	assert.Equal(t, "6281234567890", NormalizePhone(" 6281234567890 "))
}

func TestSend(t *testing.T) {
	var gotAuth, gotTarget string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotTarget = r.PostForm.Get("target")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"detail":"success! message in queue"}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{BaseURL: srv.URL, Token: "secret", Timeout: time.Second}, zap.NewNop())
	err := c.Send(context.Background(), "081234567890", "Nomor antrian KS001")

	require.NoError(t, err)
	assert.Equal(t, "secret", gotAuth)
	assert.Equal(t, "6281234567890", gotTarget)
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":false,"reason":"invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{BaseURL: srv.URL, Token: "bad", Timeout: time.Second}, zap.NewNop())
	err := c.Send(context.Background(), "081234567890", "halo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestSendWithoutToken(t *testing.T) {
	c := NewClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	assert.ErrorIs(t, c.Send(context.Background(), "0812", "x"), ErrNotConfigured)
}
