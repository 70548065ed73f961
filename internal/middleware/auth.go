package middleware

import (
	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(cfg.JWTSecret),
		SigningMethod: jwtware.HS256,
		ContextKey:    "user",
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return jwtError(c, nil)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return jwtError(c, nil)
			}

			rawID, _ := claims["user_id"].(string)
			userID, err := uuid.Parse(rawID)
			if err != nil {
				return jwtError(c, err)
			}
			role, _ := claims["role"].(string)

			c.Locals("user_id", userID)
			c.Locals("user_role", models.Role(role))
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
}

func GetUserIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}

func GetUserRoleFromContext(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("user_role").(models.Role)
	return role
}
