package employee

import (
	"backend-workhub/internal/auth"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

var errForbidden = fiber.NewError(fiber.StatusForbidden, "not allowed to access this employee")

func RegisterRoutes(r fiber.Router, svc *Service, authSvc *auth.Service, authMiddleware fiber.Handler) {
	r.Post("/login", auth.LoginHandler(authSvc, auth.RoleEmployee))
	r.Put("/update-password/:employeeId", authMiddleware, auth.ChangePasswordHandler(authSvc, auth.RoleEmployee, "employeeId"))

	managers := auth.RequireRole(auth.RoleAdmin, auth.RoleCompany)

	r.Get("/", authMiddleware, auth.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		employees, err := svc.List(c.Context())
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Employees retrieved successfully", employees)
	})

	r.Post("/create-employee", authMiddleware, managers, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if ident, _ := auth.CurrentIdentity(c); ident.Role == auth.RoleCompany {
			if req.CompanyID == "" {
				req.CompanyID = ident.ID
			}
			if req.CompanyID != ident.ID {
				return fiber.NewError(fiber.StatusForbidden, "cannot hire into another company")
			}
		}
		e, err := svc.Create(c.Context(), req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.Created(c, "Employee created successfully", e)
	})

	r.Get("/company/:companyId", authMiddleware, func(c *fiber.Ctx) error {
		companyID := c.Params("companyId")
		ident, _ := auth.CurrentIdentity(c)
		if !inCompany(ident, companyID) {
			return errForbidden
		}
		employees, err := svc.ListByCompany(c.Context(), companyID)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Employees retrieved successfully", employees)
	})

	r.Get("/:employeeId", authMiddleware, func(c *fiber.Ctx) error {
		e, err := svc.Get(c.Context(), c.Params("employeeId"))
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if !canManage(c, e, true) {
			return errForbidden
		}
		return response.OK(c, "Employee retrieved successfully", e)
	})

	r.Put("/:employeeId", authMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("employeeId")
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No update data provided")
		}
		current, err := svc.Get(c.Context(), id)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if !canManage(c, current, true) {
			return errForbidden
		}
		e, err := svc.Update(c.Context(), id, req)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Employee updated successfully", e)
	})

	r.Delete("/:employeeId", authMiddleware, managers, func(c *fiber.Ctx) error {
		id := c.Params("employeeId")
		current, err := svc.Get(c.Context(), id)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if !canManage(c, current, false) {
			return errForbidden
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Employee deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}

// canManage allows admins, the employee's company and, when self is set, the
// employee.
func canManage(c *fiber.Ctx, e Employee, self bool) bool {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return false
	}
	switch ident.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleCompany:
		return ident.ID == e.CompanyID
	case auth.RoleEmployee:
		return self && ident.ID == e.ID
	}
	return false
}

func inCompany(ident auth.Identity, companyID string) bool {
	switch ident.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleCompany:
		return ident.ID == companyID
	case auth.RoleEmployee:
		return ident.CompanyID == companyID
	}
	return false
}
