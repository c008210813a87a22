package subscription

import (
	"backend-workhub/internal/auth"
	"backend-workhub/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	adminOnly := auth.RequireRole(auth.RoleAdmin)

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		subs, err := svc.List(c.Context())
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Subscriptions retrieved successfully", subs)
	})

	r.Post("/create-subscription", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		in, err := parseInput(c)
		if err != nil {
			return err
		}
		sub, err := svc.Create(c.Context(), in)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.Created(c, "Subscription added successfully", sub)
	})

	r.Get("/:subscriptionId", authMiddleware, func(c *fiber.Ctx) error {
		sub, err := svc.Get(c.Context(), c.Params("subscriptionId"))
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Subscription retrieved successfully", sub)
	})

	r.Put("/:subscriptionId", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		in, err := parseInput(c)
		if err != nil {
			return err
		}
		sub, err := svc.Update(c.Context(), c.Params("subscriptionId"), in)
		if err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Subscription updated successfully", sub)
	})

	r.Delete("/:subscriptionId", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		id := c.Params("subscriptionId")
		if err := svc.Delete(c.Context(), id); err != nil {
			return response.FromError(err, fiber.StatusInternalServerError)
		}
		return response.OK(c, "Subscription deleted successfully", fiber.Map{"id": id, "isDeleted": true})
	})
}

func parseInput(c *fiber.Ctx) (Input, error) {
	var body Envelope
	if err := c.BodyParser(&body); err != nil {
		return Input{}, fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if body.Subscription == nil {
		return Input{}, fiber.NewError(fiber.StatusBadRequest, "No subscription data provided")
	}
	return *body.Subscription, nil
}
