package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// RequireRole allows only the listed roles past.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient role")
	}
}

// RequirePermission gates a route on a single permission.
func RequirePermission(permission models.Permission) fiber.Handler {
	return requirePermissions(func(user AuthUser) bool {
		return user.Permissions.Has(permission)
	})
}

// RequireAnyPermission passes when the user holds at least one of the
// permissions.
func RequireAnyPermission(permissions ...models.Permission) fiber.Handler {
	return requirePermissions(func(user AuthUser) bool {
		return user.Permissions.HasAny(permissions...)
	})
}

// RequireAllPermissions passes only when the user holds every permission.
func RequireAllPermissions(permissions ...models.Permission) fiber.Handler {
	return requirePermissions(func(user AuthUser) bool {
		return user.Permissions.HasAll(permissions...)
	})
}

func requirePermissions(allowed func(AuthUser) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !allowed(user) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
