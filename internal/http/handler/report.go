package handler

import "github.com/gofiber/fiber/v2"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportQueues streams the queue report for start_date..end_date
// (YYYY-MM-DD) as an xlsx attachment.
func (h *Handler) ExportQueues(c *fiber.Ctx) error {
	data, filename, err := h.Reports.ExportQueues(c.UserContext(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return h.fail(c, err)
	}

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}
