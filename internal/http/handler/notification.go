package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
)

func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	list, err := h.Notifications.Unread(c.UserContext(), a.UserID, c.Query("hash"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", list)
}

// MarkAllNotificationsRead marks the caller's own and broadcast
// notifications as read.
func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	n, err := h.Notifications.MarkAllRead(c.UserContext(), a.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Notifikasi ditandai sudah dibaca", fiber.Map{"updated": n})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.Notifications.MarkRead(c.UserContext(), id, a.UserID); err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Notifikasi ditandai sudah dibaca", nil)
}
