package workprogress

import (
	"errors"
	"time"

	"backend-workhub/internal/auth"
	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

var nowFn = time.Now

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var req StartRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.EmployeeID == "" || req.CompanyID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId and companyId are required")
		}
		if err := authorize(c, svc, req.EmployeeID, req.CompanyID); err != nil {
			return err
		}

		session, err := svc.Start(c.Context(), req.EmployeeID, req.CompanyID, nowFn())
		if err != nil {
			return trackerError(err)
		}
		return response.OK(c, "Tracker started successfully", session)
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		var req StopRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.EmployeeID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId is required")
		}
		if err := authorize(c, svc, req.EmployeeID, ""); err != nil {
			return err
		}

		session, err := svc.Stop(c.Context(), req.EmployeeID, nowFn())
		if err != nil {
			return trackerError(err)
		}
		return response.OK(c, "Tracker stopped successfully", session)
	})

	r.Post("/filter", authMiddleware, func(c *fiber.Ctx) error {
		var req FilterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid filter criteria")
		}
		if req.EmployeeID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId is required")
		}
		if err := authorize(c, svc, req.EmployeeID, ""); err != nil {
			return err
		}

		var (
			sessions []Session
			err      error
		)
		loc := svc.Location()
		switch {
		case req.Date != nil:
			sessions, err = svc.FilterByDate(c.Context(), req.EmployeeID, req.Date.Resolve(loc))
		case req.StartDate != nil && req.EndDate != nil:
			sessions, err = svc.FilterByDateRange(c.Context(), req.EmployeeID, req.StartDate.Resolve(loc), req.EndDate.Resolve(loc))
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid filter criteria")
		}
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Work progress filtered successfully", sessions)
	})

	r.Get("/company/:companyId", authMiddleware, func(c *fiber.Ctx) error {
		companyID := c.Params("companyId")
		if err := authorizeCompany(c, companyID); err != nil {
			return err
		}
		sessions, err := svc.ListByCompany(c.Context(), companyID)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if len(sessions) == 0 {
			return response.Fail(c, fiber.StatusNotFound, "No work progress found for the given company Id")
		}
		return response.OK(c, "Work progresses retrieved successfully", sessions)
	})

	r.Get("/employee/:employeeId", authMiddleware, func(c *fiber.Ctx) error {
		employeeID := c.Params("employeeId")
		if err := authorize(c, svc, employeeID, ""); err != nil {
			return err
		}
		sessions, err := svc.ListByEmployee(c.Context(), employeeID)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if len(sessions) == 0 {
			return response.Fail(c, fiber.StatusNotFound, "No work progress found for the given employee Id")
		}
		return response.OK(c, "Work progresses retrieved successfully", sessions)
	})

	r.Delete("/:workProgressId", authMiddleware, auth.RequireRole(auth.RoleAdmin, auth.RoleCompany), func(c *fiber.Ctx) error {
		id := c.Params("workProgressId")
		if ident, _ := auth.CurrentIdentity(c); ident.Role == auth.RoleCompany {
			session, err := svc.Get(c.Context(), id)
			if err != nil {
				return response.FromError(err, fiber.StatusInternalServerError)
			}
			if session.CompanyID != ident.ID {
				return fiber.NewError(fiber.StatusForbidden, "work progress belongs to another company")
			}
		}
		if err := svc.SoftDelete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Work progress deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}

// trackerError reports state conflicts as 500 with their message, matching
// the rest of the tracker surface.
func trackerError(err error) error {
	if IsConflict(err) {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return response.FromError(err, fiber.StatusInternalServerError)
}

// authorize lets employees act only on themselves and companies only on their
// own staff. A company's staff is checked against the employees table.
func authorize(c *fiber.Ctx, svc *Service, employeeID, companyID string) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return errUnauthenticated
	}
	switch ident.Role {
	case auth.RoleAdmin:
		return nil
	case auth.RoleEmployee:
		if ident.ID != employeeID || (companyID != "" && ident.CompanyID != companyID) {
			return errForbidden
		}
		return nil
	case auth.RoleCompany:
		if companyID != "" && ident.ID != companyID {
			return errForbidden
		}
		employer, err := svc.EmployerOf(c.Context(), employeeID)
		if errors.Is(err, db.ErrNotFound) {
			return errForbidden
		}
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		if employer != ident.ID {
			return errForbidden
		}
		return nil
	}
	return errForbidden
}

func authorizeCompany(c *fiber.Ctx, companyID string) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return errUnauthenticated
	}
	if ident.Role == auth.RoleAdmin {
		return nil
	}
	if ident.Role == auth.RoleCompany && ident.ID == companyID {
		return nil
	}
	if ident.Role == auth.RoleEmployee && ident.CompanyID == companyID {
		return nil
	}
	return errForbidden
}

var (
	errForbidden       = fiber.NewError(fiber.StatusForbidden, "not allowed to access this work progress")
	errUnauthenticated = fiber.NewError(fiber.StatusUnauthorized, "missing identity")
)
