package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// JWTMiddleware validates bearer tokens and stores the caller's Identity in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid || claims.Subject == "" || claims.Type != TokenAccess {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}

		c.Locals(identityKey, claims.Identity())
		return c.Next()
	}
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

// RequireRole rejects callers whose token role is not listed. It must run
// after JWTMiddleware.
func RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := CurrentIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}
		if !slices.Contains(roles, ident.Role) {
			return fiber.NewError(fiber.StatusForbidden, "role "+string(ident.Role)+" not allowed")
		}
		return c.Next()
	}
}

func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	ident, ok := c.Locals(identityKey).(Identity)
	return ident, ok
}

// WithIdentity is used by tests and internal callers to seed locals.
func WithIdentity(ident Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
