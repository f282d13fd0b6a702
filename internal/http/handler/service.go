package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
)

// GetActiveServices is the public list the visitor form picks from.
func (h *Handler) GetActiveServices(c *fiber.Ctx) error {
	services, err := h.Catalog.List(c.UserContext(), true)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", services)
}

func (h *Handler) GetAllServices(c *fiber.Ctx) error {
	services, err := h.Catalog.List(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", services)
}

func (h *Handler) GetServiceByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	svc, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "", svc)
}

func (h *Handler) CreateService(c *fiber.Ctx) error {
	var req models.CreateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	svc, err := h.Catalog.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, "Layanan berhasil dibuat", svc)
}

func (h *Handler) UpdateService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req models.UpdateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	svc, err := h.Catalog.Update(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Layanan berhasil diupdate", svc)
}

func (h *Handler) DeleteService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, "Layanan berhasil dihapus", nil)
}
