package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	res, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Login berhasil", res)
}

// Logout is stateless; the client drops its token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return response.OK(c, "Logout berhasil", nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	user, err := h.Auth.Me(c.UserContext(), a.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", user)
}
