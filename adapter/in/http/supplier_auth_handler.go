package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler answers identity lookups of the authenticated caller.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log.With().Str("handler", "auth").Logger()}
}

// Register registers the auth routes.
func (h *AuthHandler) Register(app fiber.Router, guard Guard) {
	app.Get("/auth/rollen", guard(RoleSupplier), h.Roles)
}

// Roles answers the roles of the authenticated caller, as set by the
// authentication middleware.
func (h *AuthHandler) Roles(c *fiber.Ctx) error {
	roles, ok := c.Locals("roles").([]string)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.JSON(roles)
}
