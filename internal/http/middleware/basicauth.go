package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/config"
	"backend-antrian-pst/internal/http/response"
)

// BasicAuth protects the operator endpoints used by scheduled jobs.
func BasicAuth(cfg config.BasicAuthConfig) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Users: map[string]string{
			cfg.User: cfg.Password,
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return response.Error(c, apperr.Unauthorized("unauthorized"))
		},
	})
}
