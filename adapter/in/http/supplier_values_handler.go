package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"supplier_server/core/service/supplier"
)

// ValuesHandler exposes the scalar lookup endpoints.
type ValuesHandler struct {
	svc *supplier.Service
	log zerolog.Logger
}

func NewValuesHandler(svc *supplier.Service, log zerolog.Logger) *ValuesHandler {
	return &ValuesHandler{
		svc: svc,
		log: log.With().Str("handler", "values").Logger(),
	}
}

// Register registers the values routes.
func (h *ValuesHandler) Register(app fiber.Router, guard Guard) {
	app.Get("/anzahl", guard(RoleSupplier), h.Count)
	app.Get("/nachname/:prefix", guard(RoleSupplier), h.Lastnames)
	app.Get("/email/:prefix", guard(RoleSupplier), h.Emails)
	app.Get("/version/:id<guid>", guard(RoleSupplier), h.Version)
}

// Count answers the total number of records as plain text.
func (h *ValuesHandler) Count(c *fiber.Ctx) error {
	count, err := h.svc.Count(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.SendString(strconv.FormatInt(count, 10))
}

// Lastnames answers the distinct lastnames starting with the prefix.
func (h *ValuesHandler) Lastnames(c *fiber.Ctx) error {
	names, err := h.svc.LastnamesByPrefix(c.UserContext(), c.Params("prefix"))
	if err != nil {
		return writeError(c, err)
	}
	if len(names) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(names)
}

// Emails answers the emails starting with the prefix.
func (h *ValuesHandler) Emails(c *fiber.Ctx) error {
	emails, err := h.svc.EmailsByPrefix(c.UserContext(), c.Params("prefix"))
	if err != nil {
		return writeError(c, err)
	}
	if len(emails) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(emails)
}

// Version answers the current version number of a record as plain text.
func (h *ValuesHandler) Version(c *fiber.Ctx) error {
	version, err := h.svc.VersionByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if version < 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendString(strconv.Itoa(version))
}
