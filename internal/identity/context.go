// Package identity resolves the acting operator from the request-scoped
// JWT, replacing any notion of process-wide session state: every handler
// asks the request who is acting, never a global.
package identity

import (
	"errors"

	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("no authenticated identity in request")

// Identity is the operator bound to one request.
type Identity struct {
	Username    string
	Role        string
	Permissions []string
}

// HasPermission mirrors models.User: admins pass everything, others need
// the exact capability tag.
func (id *Identity) HasPermission(code string) bool {
	if id.Role == models.RoleAdmin {
		return true
	}
	for _, p := range id.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

// FromContext extracts the identity placed in locals by the JWT
// middleware.
func FromContext(c *fiber.Ctx) (*Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoIdentity
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrNoIdentity
	}

	id := &Identity{Username: sub}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	if raw, ok := claims["perms"].([]any); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				id.Permissions = append(id.Permissions, s)
			}
		}
	}
	return id, nil
}

// Username is a convenience for handlers that only need the actor name.
func Username(c *fiber.Ctx) string {
	id, err := FromContext(c)
	if err != nil {
		return ""
	}
	return id.Username
}
