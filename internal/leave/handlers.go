package leave

import (
	"backend-workhub/internal/auth"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

var errForbidden = fiber.NewError(fiber.StatusForbidden, "not allowed to access this leave")

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, auth.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		leaves, err := svc.List(c.Context())
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Leaves retrieved successfully", leaves)
	})

	r.Post("/apply-leave", authMiddleware, func(c *fiber.Ctx) error {
		var body ApplyEnvelope
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if body.Leave == nil {
			return fiber.NewError(fiber.StatusBadRequest, "No leave data provided")
		}
		ident, _ := auth.CurrentIdentity(c)
		if !owns(ident, body.Leave.EmployeeID, body.Leave.CompanyID) {
			return errForbidden
		}
		// employees cannot approve their own requests
		if ident.Role == auth.RoleEmployee && body.Leave.Status != "" && body.Leave.Status != StatusPending {
			return errForbidden
		}
		l, err := svc.Apply(c.Context(), *body.Leave)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.Created(c, "Leave applied successfully", l)
	})

	r.Get("/company/:companyId", authMiddleware, func(c *fiber.Ctx) error {
		companyID := c.Params("companyId")
		ident, _ := auth.CurrentIdentity(c)
		if ident.Role == auth.RoleEmployee || (ident.Role == auth.RoleCompany && ident.ID != companyID) {
			return errForbidden
		}
		leaves, err := svc.ListByCompany(c.Context(), companyID)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if len(leaves) == 0 {
			return response.Fail(c, fiber.StatusNotFound, "No leave found for the given company Id")
		}
		return response.OK(c, "Leave records retrieved successfully", leaves)
	})

	r.Get("/employee/:employeeId", authMiddleware, func(c *fiber.Ctx) error {
		employeeID := c.Params("employeeId")
		ident, _ := auth.CurrentIdentity(c)
		if ident.Role == auth.RoleEmployee && ident.ID != employeeID {
			return errForbidden
		}
		leaves, err := svc.ListByEmployee(c.Context(), employeeID)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if ident.Role == auth.RoleCompany {
			leaves = ofCompany(leaves, ident.ID)
		}
		if len(leaves) == 0 {
			return response.Fail(c, fiber.StatusNotFound, "No leave found for the given employee Id")
		}
		return response.OK(c, "Leave records retrieved successfully", leaves)
	})

	r.Patch("/:leaveId/status", authMiddleware, auth.RequireRole(auth.RoleAdmin, auth.RoleCompany), func(c *fiber.Ctx) error {
		var req StatusRequest
		if err := c.BodyParser(&req); err != nil || req.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}
		id := c.Params("leaveId")
		current, err := svc.Get(c.Context(), id)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		ident, _ := auth.CurrentIdentity(c)
		if ident.Role == auth.RoleCompany && ident.ID != current.CompanyID {
			return errForbidden
		}
		l, err := svc.UpdateStatus(c.Context(), id, req.Status)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Status updated successfully", l)
	})

	r.Delete("/:leaveId", authMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("leaveId")
		current, err := svc.Get(c.Context(), id)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		ident, _ := auth.CurrentIdentity(c)
		if !owns(ident, current.EmployeeID, current.CompanyID) {
			return errForbidden
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Leave record deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}

func owns(ident auth.Identity, employeeID, companyID string) bool {
	switch ident.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleCompany:
		return ident.ID == companyID
	case auth.RoleEmployee:
		return ident.ID == employeeID && ident.CompanyID == companyID
	}
	return false
}

func ofCompany(leaves []Leave, companyID string) []Leave {
	out := leaves[:0]
	for _, l := range leaves {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out
}
