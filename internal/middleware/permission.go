package middleware

import (
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// RequirePermission enforces a capability tag server-side. What the menu
// renders is irrelevant; a request without the tag is rejected here,
// before any store call.
func RequirePermission(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !id.HasPermission(code) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Permission required: " + code,
			})
		}
		return c.Next()
	}
}
