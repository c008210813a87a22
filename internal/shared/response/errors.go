package response

import (
	"errors"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

// FromError translates a service error into a fiber error. Errors the store
// and validator know about get their own status; anything else uses fallback.
func FromError(err error, fallback int) error {
	var ve *validate.Errors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, db.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case db.IsRetryable(err):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fallback, err.Error())
}
