package stream

import (
	"backend-workhub/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes GET /ws/:companyID. Callers must belong to the
// company unless they are admins.
func RegisterRoutes(r fiber.Router, hub *Hub, authMiddleware fiber.Handler) {
	r.Get("/ws/:companyID", authMiddleware, func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !canFollow(c, c.Params("companyID")) {
			return fiber.NewError(fiber.StatusForbidden, "not allowed to follow this company")
		}
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("companyID"))
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		// clients only listen; reads detect the disconnect
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}

func canFollow(c *fiber.Ctx, companyID string) bool {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return false
	}
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
