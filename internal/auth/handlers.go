package auth

import (
	"errors"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/refresh", func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "refresh_token required")
		}

		tokens, err := svc.Refresh(c.Context(), req.RefreshToken)
		if err != nil {
			if db.IsRetryable(err) {
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return response.OK(c, "Token refreshed", tokens)
	})

	r.Post("/logout", func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "refresh_token required")
		}
		if err := svc.Logout(c.Context(), req.RefreshToken); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Logged out", nil)
	})

	r.Get("/jwt/verify", func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		ident, err := svc.ValidateAccessToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return response.OK(c, "Token valid", ident)
	})
}

// LoginHandler serves POST /login for the given account role.
func LoginHandler(svc *Service, role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
		}

		tokens, err := svc.Login(c.Context(), role, req)
		switch {
		case errors.Is(err, ErrAccountNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		case err != nil:
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Login successful", tokens)
	}
}

// ChangePasswordHandler serves PUT /update-password/:param. Callers may only
// change their own password unless they are an admin.
func ChangePasswordHandler(svc *Service, role Role, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if ident, ok := CurrentIdentity(c); ok && ident.Role != RoleAdmin && (ident.Role != role || ident.ID != id) {
			return fiber.NewError(fiber.StatusForbidden, "cannot change another account's password")
		}

		var req ChangePasswordRequest
		if err := c.BodyParser(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Current password and new password are required")
		}

		err := svc.ChangePassword(c.Context(), role, id, req)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
		}
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Password updated successfully", nil)
	}
}
