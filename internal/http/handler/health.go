package handler

import "github.com/gofiber/fiber/v2"

// HealthCheck always answers 200; a failing dependency only degrades the
// status.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(h.Health.Check(c.UserContext()))
}
