package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/realtime"
	"backend-antrian-pst/internal/service"
)

const HeaderQueueHash = "x-queue-hash"

// QueueDisplay feeds the waiting-room screen. The previous hash may come in
// the x-queue-hash header or the hash query parameter.
func (h *Handler) QueueDisplay(c *fiber.Ctx) error {
	adminID, err := queryID(c, "adminId")
	if err != nil {
		return h.fail(c, err)
	}

	prev := c.Get(HeaderQueueHash)
	if prev == "" {
		prev = c.Query("hash")
	}

	feed, err := h.Display.Display(c.UserContext(), service.DisplayParams{
		AdminID:    adminID,
		DateFilter: c.Query("dateFilter"),
		PrevHash:   prev,
	})
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(HeaderQueueHash, feed.Hash)
	return response.OK(c, "", feed)
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func DisplaySocket(hub *realtime.Hub) fiber.Handler {
	return websocket.New(hub.Serve)
}
