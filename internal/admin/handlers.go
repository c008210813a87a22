package admin

import (
	"backend-workhub/internal/auth"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authSvc *auth.Service, authMiddleware fiber.Handler) {
	r.Post("/login", auth.LoginHandler(authSvc, auth.RoleAdmin))
	r.Put("/update-password/:adminId", authMiddleware, auth.ChangePasswordHandler(authSvc, auth.RoleAdmin, "adminId"))

	adminOnly := auth.RequireRole(auth.RoleAdmin)

	r.Get("/", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		admins, err := svc.List(c.Context())
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Admins retrieved successfully", admins)
	})

	r.Post("/create-admin", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		a, err := svc.Create(c.Context(), req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.Created(c, "Admin created successfully", a)
	})

	r.Get("/:adminId", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		a, err := svc.Get(c.Context(), c.Params("adminId"))
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Admin retrieved successfully", a)
	})

	r.Put("/:adminId", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No update data provided")
		}
		a, err := svc.Update(c.Context(), c.Params("adminId"), req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Admin updated successfully", a)
	})

	r.Delete("/:adminId", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		id := c.Params("adminId")
		if err := svc.Delete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Admin deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}
