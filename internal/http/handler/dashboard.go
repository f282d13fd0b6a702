package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
)

func (h *Handler) DashboardStats(c *fiber.Ctx) error {
	res, err := h.Dashboard.Stats(c.UserContext(), c.Query("hash"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", res)
}
