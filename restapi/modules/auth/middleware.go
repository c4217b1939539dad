package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
)

func (a *Authenticator) token(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return c.Cookies(authCookie)
}

// RequireAuth middleware validates the JWT from the Authorization header or
// the auth_token cookie and blocks guests
func (a *Authenticator) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := a.token(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := a.ValidateJWT(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		// Store user info in context
		c.Locals(localsAuthenticated, true)
		c.Locals(localsCaller, model.Caller{Username: claims.Username, Role: claims.Role})

		return c.Next()
	}
}

// RequireRole middleware checks the caller's role is at least the required one
func RequireRole(required model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !caller.Role.AtLeast(required) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}

// CallerFrom returns the authenticated caller stored by RequireAuth
func CallerFrom(c *fiber.Ctx) (model.Caller, bool) {
	caller, ok := c.Locals(localsCaller).(model.Caller)
	return caller, ok
}

// Me returns the authenticated caller
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		return c.JSON(caller)
	}
}
