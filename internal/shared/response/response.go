// Package response renders the JSON envelope every endpoint returns:
// {success, message, data?, error?}.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func OK(c *fiber.Ctx, message string, data any) error {
	return Send(c, fiber.StatusOK, message, data)
}

func Created(c *fiber.Ctx, message string, data any) error {
	return Send(c, fiber.StatusCreated, message, data)
}

func Send(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an unsuccessful envelope without going through the error handler.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// ErrorHandler is installed as fiber's ErrorHandler so handlers can keep
// returning fiber.NewError and still produce the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}

	env := Envelope{Success: false, Message: message}
	if status >= fiber.StatusInternalServerError {
		env.Error = fiber.Map{"status": status}
	}
	return c.Status(status).JSON(env)
}
