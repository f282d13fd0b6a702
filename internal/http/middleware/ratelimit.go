package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/ratelimit"
)

type Allower interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

// RateLimit throttles a route per client IP. When the limiter itself fails
// the request is let through and the failure logged.
func RateLimit(limiter Allower, name string, limit int, window time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := name + ":" + c.IP()

		res, err := limiter.Allow(c.UserContext(), key, limit, window)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retry := int((res.RetryAfter + time.Second - 1) / time.Second)
			if retry < 1 {
				retry = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return response.Error(c, apperr.New(apperr.KindRateLimited, apperr.CodeRateLimited,
				"Terlalu banyak permintaan, coba lagi nanti"))
		}
		return c.Next()
	}
}
