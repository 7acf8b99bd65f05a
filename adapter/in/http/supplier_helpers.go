// Package http provides the inbound REST adapters.
package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"supplier_server/core/domain"
	"supplier_server/pkg/apperr"
)

// acceptsEventStream reports whether the client asked for the streaming
// representation.
func acceptsEventStream(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream")
}

// queryParams collects the raw query parameters, including repeated keys.
func queryParams(c *fiber.Ctx) map[string][]string {
	params := make(map[string][]string)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		params[k] = append(params[k], string(value))
	})
	return params
}

// decodeSupplier parses the request body into a supplier payload. Decoder
// failures surface their message as a bad request.
func decodeSupplier(c *fiber.Ctx) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	return &supplier, nil
}

// IfMatch reads the version token from the If-Match header. Returns a
// missing-version error when the header is absent.
func IfMatch(c *fiber.Ctx) (string, error) {
	version := c.Get(fiber.HeaderIfMatch)
	if version == "" {
		return "", apperr.MissingVersion()
	}
	return version, nil
}

// IfNoneMatch reads the If-None-Match header, empty when absent.
func IfNoneMatch(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderIfNoneMatch)
}

// etag renders a version as the quoted entity tag.
func etag(version int) string {
	return fmt.Sprintf(`"%d"`, version)
}

// baseURL reconstructs the collection base for link building.
func baseURL(c *fiber.Ctx) string {
	return c.Protocol() + "://" + string(c.Request().Host())
}

// singleLinks attaches the full link relation set to a single resource.
func singleLinks(supplier *domain.Supplier, base string) {
	self := base + "/" + supplier.ID
	supplier.Links = map[string]domain.Link{
		"self":   {Href: self},
		"list":   {Href: base},
		"add":    {Href: base},
		"update": {Href: self},
		"remove": {Href: self},
	}
}

// itemLinks attaches the self relation to a list item.
func itemLinks(supplier *domain.Supplier, base string) {
	supplier.ItemLinks = []domain.ItemLink{
		{Rel: "self", Href: base + "/" + supplier.ID},
	}
}

// writeError renders an application error. Conflict and precondition errors
// answer with a plain-text message; validation failures answer with the
// violation list as JSON.
func writeError(c *fiber.Ctx, err error) error {
	appErr := apperr.As(err)

	switch appErr.Code {
	case apperr.CodeValidationFailed:
		return c.Status(appErr.Status).JSON(appErr.Violations)
	case apperr.CodeEmailExists, apperr.CodeUsernameExists, apperr.CodeInvalidAccount,
		apperr.CodeInvalidVersion, apperr.CodeMissingVersion,
		apperr.CodeBadRequest, apperr.CodeUnsupportedOp, apperr.CodeUnsupportedPath:
		return c.Status(appErr.Status).SendString(appErr.Message)
	default:
		return c.Status(appErr.Status).JSON(fiber.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
	}
}
