package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed JSON call.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSONError writes status with a generic message.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// JSONFieldErrors writes a 400 with per field messages.
func JSONFieldErrors(c *fiber.Ctx, msg string, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg, Fields: fields})
}

// WantsJSON reports whether the caller is the browser script rather than a form post.
func WantsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), APIPath) ||
		strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
