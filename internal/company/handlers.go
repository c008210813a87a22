package company

import (
	"backend-workhub/internal/auth"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authSvc *auth.Service, authMiddleware fiber.Handler) {
	r.Post("/login", auth.LoginHandler(authSvc, auth.RoleCompany))
	r.Put("/update-password/:companyId", authMiddleware, auth.ChangePasswordHandler(authSvc, auth.RoleCompany, "companyId"))

	// self-registration is public
	r.Post("/create-company", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		company, err := svc.Create(c.Context(), req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.Created(c, "Company created successfully", company)
	})

	r.Get("/", authMiddleware, auth.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		companies, err := svc.List(c.Context())
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Companies retrieved successfully", companies)
	})

	selfOrAdmin := auth.RequireRole(auth.RoleAdmin, auth.RoleCompany)

	r.Get("/:companyId", authMiddleware, selfOrAdmin, func(c *fiber.Ctx) error {
		id := c.Params("companyId")
		if err := ownCompany(c, id); err != nil {
			return err
		}
		company, err := svc.Get(c.Context(), id)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Company retrieved successfully", company)
	})

	r.Put("/:companyId", authMiddleware, selfOrAdmin, func(c *fiber.Ctx) error {
		id := c.Params("companyId")
		if err := ownCompany(c, id); err != nil {
			return err
		}
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No update data provided")
		}
		company, err := svc.Update(c.Context(), id, req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Company updated successfully", company)
	})

	r.Delete("/:companyId", authMiddleware, selfOrAdmin, func(c *fiber.Ctx) error {
		id := c.Params("companyId")
		if err := ownCompany(c, id); err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Company deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}

func ownCompany(c *fiber.Ctx, id string) error {
	ident, _ := auth.CurrentIdentity(c)
	if ident.Role == auth.RoleCompany && ident.ID != id {
		return fiber.NewError(fiber.StatusForbidden, "not allowed to access another company")
	}
	return nil
}
