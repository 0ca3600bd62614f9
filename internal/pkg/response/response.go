package response

import "github.com/gofiber/fiber/v2"

// Error bodies follow the shapes API clients already parse:
// 400 -> {"field": ["message", ...]}, 403 -> {"error": "..."},
// 401/404 -> {"detail": "..."}, 500 -> {"error": "..."}.

// Success sends a 200 response with the given body
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent sends a 204 response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ValidationFailed sends a 400 response with field-keyed messages
func ValidationFailed(c *fiber.Ctx, fields map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fields)
}

// BadRequest sends a 400 response with a non-field message
func BadRequest(c *fiber.Ctx, message string) error {
	return ValidationFailed(c, map[string][]string{"non_field_errors": {message}})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": message})
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": message})
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": message})
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
