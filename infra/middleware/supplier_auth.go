package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"supplier_server/core/service/auth"
)

// BasicAuth authenticates the request with HTTP Basic credentials and
// requires at least one of the given roles. The authenticated username and
// role set are stored in the request locals.
func BasicAuth(users *auth.Service, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, password, ok := basicCredentials(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="lieferant"`)
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		user, err := users.Authenticate(c.UserContext(), username, password)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="lieferant"`)
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		if len(roles) > 0 && !auth.HasRole(user, roles...) {
			return c.SendStatus(fiber.StatusForbidden)
		}

		c.Locals("username", user.Username)
		c.Locals("roles", user.Roles)
		return c.Next()
	}
}

func basicCredentials(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	credentials := string(decoded)
	sep := strings.IndexByte(credentials, ':')
	if sep < 0 {
		return "", "", false
	}
	return credentials[:sep], credentials[sep+1:], true
}
