package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/middleware"
	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
)

// CreateGuest registers a walk-in visitor typed in by staff.
func (h *Handler) CreateGuest(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	var form models.VisitorForm
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}

	created, err := h.Intake.SubmitGuest(c.UserContext(), form, a)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, "Antrian berhasil dibuat", created)
}

// OpenVisitorForm exchanges a one-time link for a form session token.
func (h *Handler) OpenVisitorForm(c *fiber.Ctx) error {
	session, err := h.TempLinks.Open(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", session)
}

func (h *Handler) SubmitVisitorForm(c *fiber.Ctx) error {
	linkUUID, _ := c.Locals(middleware.LocalLinkUUID).(string)

	var form models.VisitorForm
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}

	created, err := h.Intake.SubmitVisitorForm(c.UserContext(), form, linkUUID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, "Antrian berhasil dibuat", created)
}

func (h *Handler) IssueVisitorLink(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	link, err := h.TempLinks.Issue(c.UserContext(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, "Link formulir berhasil dibuat", link)
}
