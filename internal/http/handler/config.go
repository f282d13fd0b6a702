package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
)

func (h *Handler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.Hours.Get(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", cfg)
}

func (h *Handler) UpdateConfig(c *fiber.Ctx) error {
	var req models.UpdateConfigRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	cfg, err := h.Hours.Update(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Jam operasional berhasil diupdate", cfg)
}
