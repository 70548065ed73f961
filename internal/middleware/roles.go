package middleware

import (
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only when the JWT role is one of roles.
// It must run after JWTMiddleware.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		role := GetUserRoleFromContext(c)
		if role == "" {
			return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
		}
		if !allowed[role] {
			return utils.Error(c, "Access denied", fiber.StatusForbidden)
		}
		return c.Next()
	}
}

func OrganizerOnly() fiber.Handler {
	return RequireRole(models.RoleOrganizer)
}
