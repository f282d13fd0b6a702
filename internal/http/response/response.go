// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/apperr"
)

func OK(c *fiber.Ctx, message string, data any) error {
	return c.JSON(envelope(message, data))
}

func Created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope(message, data))
}

func envelope(message string, data any) fiber.Map {
	body := fiber.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return body
}

// Error renders err as {"error", "code", "details"?} with the status its
// kind maps to.
func Error(c *fiber.Ctx, err error) error {
	e := apperr.From(err)
	body := fiber.Map{
		"error": e.Message,
		"code":  e.Code,
	}
	if e.Details != nil {
		body["details"] = e.Details
	}
	return c.Status(apperr.HTTPStatus(e.Kind)).JSON(body)
}

// ErrorHandler is the fiber.Config ErrorHandler: errors that escape a
// handler, including fiber's own 404/405, use the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return Error(c, err)
	}

	code := apperr.CodeInternal
	switch {
	case fe.Code == fiber.StatusNotFound:
		code = apperr.CodeNotFound
	case fe.Code == fiber.StatusUnauthorized:
		code = apperr.CodeUnauthorized
	case fe.Code == fiber.StatusForbidden:
		code = apperr.CodeForbidden
	case fe.Code == fiber.StatusTooManyRequests:
		code = apperr.CodeRateLimited
	case fe.Code < fiber.StatusInternalServerError:
		code = apperr.CodeValidation
	}
	return c.Status(fe.Code).JSON(fiber.Map{
		"error": fe.Message,
		"code":  code,
	})
}
