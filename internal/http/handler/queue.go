package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/service"
)

// ListQueues serves GET /api/queue. Passing the last seen hash lets the
// caller skip re-rendering when has_changes is false.
func (h *Handler) ListQueues(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return h.fail(c, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return h.fail(c, err)
	}
	adminID, err := queryID(c, "adminId")
	if err != nil {
		return h.fail(c, err)
	}

	list, err := h.Query.List(c.UserContext(), service.ListParams{
		Status:       c.Query("status"),
		DateFilter:   c.Query("dateFilter"),
		Limit:        limit,
		Offset:       offset,
		VisitorPhone: c.Query("phone"),
		AdminID:      adminID,
		Order:        c.Query("order"),
		PrevHash:     c.Query("hash"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", list)
}

func (h *Handler) GetQueue(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	q, err := h.Query.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", q)
}

type transitionFunc func(ctx context.Context, queueID int64, actor service.Actor) (models.QueueDetail, error)

func (h *Handler) transition(c *fiber.Ctx, fn transitionFunc, message string) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	q, err := fn(c.UserContext(), id, a)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, message, q)
}

func (h *Handler) ServeQueue(c *fiber.Ctx) error {
	return h.transition(c, h.Lifecycle.Serve, "Antrian dipanggil")
}

func (h *Handler) CompleteQueue(c *fiber.Ctx) error {
	return h.transition(c, h.Lifecycle.Complete, "Antrian selesai dilayani")
}

func (h *Handler) CancelQueue(c *fiber.Ctx) error {
	return h.transition(c, h.Lifecycle.Cancel, "Antrian dibatalkan")
}

func (h *Handler) MarkSKD(c *fiber.Ctx) error {
	return h.transition(c, h.Reminders.MarkSKD, "Survei SKD tercatat")
}

func (h *Handler) SendReminder(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.Reminders.Remind(c.UserContext(), id, a)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Pengingat WhatsApp terkirim", res)
}

// TrackQueue is the public page behind a visitor's tracking link.
func (h *Handler) TrackQueue(c *fiber.Ctx) error {
	t, err := h.Query.Track(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", t)
}
