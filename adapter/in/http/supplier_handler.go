package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"supplier_server/core/service/supplier"
	"supplier_server/pkg/apperr"
)

// Guard produces the authentication middleware for a set of required roles.
type Guard func(roles ...string) fiber.Handler

// Role names of the security matrix.
const (
	RoleAdmin    = "ADMIN"
	RoleSupplier = "LIEFERANT"
	RoleActuator = "ACTUATOR"
)

// SupplierHandler exposes the supplier record resource.
type SupplierHandler struct {
	svc    *supplier.Service
	stream *StreamHandler
	log    zerolog.Logger
}

func NewSupplierHandler(svc *supplier.Service, stream *StreamHandler, log zerolog.Logger) *SupplierHandler {
	return &SupplierHandler{
		svc:    svc,
		stream: stream,
		log:    log.With().Str("handler", "supplier").Logger(),
	}
}

// Register registers the record routes. Writes require the guard roles of the
// security matrix; create is deliberately public (self-registration).
func (h *SupplierHandler) Register(app fiber.Router, guard Guard) {
	app.Post("/", h.Create)
	app.Get("/", guard(RoleAdmin), h.Find)
	app.Get("/:id<guid>", guard(RoleAdmin), h.FindByID)
	app.Put("/:id<guid>", guard(RoleSupplier), h.Update)
	app.Patch("/:id<guid>", guard(RoleAdmin), h.Patch)
	app.Delete("/:id<guid>", guard(RoleAdmin), h.DeleteByID)
	app.Delete("/", guard(RoleAdmin), h.DeleteByEmail)
}

// Find answers a criteria search. An event-stream Accept header switches to
// the streaming representation; otherwise an empty result is a 404.
func (h *SupplierHandler) Find(c *fiber.Ctx) error {
	if acceptsEventStream(c) {
		return h.stream.StreamAll(c)
	}

	found, err := h.svc.Find(c.UserContext(), queryParams(c))
	if err != nil {
		return writeError(c, err)
	}
	if len(found) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	base := baseURL(c)
	for i := range found {
		itemLinks(&found[i], base)
	}
	return c.JSON(found)
}

// FindByID answers a single record with its entity tag. A matching
// If-None-Match short-circuits to 304.
func (h *SupplierHandler) FindByID(c *fiber.Ctx) error {
	id := c.Params("id")

	found, err := h.svc.FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if found == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	tag := etag(found.Version)
	if IfNoneMatch(c) == tag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	singleLinks(found, baseURL(c))
	c.Set(fiber.HeaderETag, tag)
	return c.JSON(found)
}

// Create persists a new record and answers 201 with its Location.
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	supplierIn, err := decodeSupplier(c)
	if err != nil {
		return writeError(c, err)
	}

	created, err := h.svc.Create(c.UserContext(), *supplierIn)
	if err != nil {
		return writeError(c, err)
	}

	h.log.Info().Str("id", created.ID).Msg("supplier created")
	c.Set(fiber.HeaderLocation, baseURL(c)+"/"+created.ID)
	return c.SendStatus(fiber.StatusCreated)
}

// Update replaces a record; the If-Match token is mandatory.
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	version, err := IfMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	supplierIn, err := decodeSupplier(c)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := h.svc.Update(c.UserContext(), *supplierIn, id, version)
	if err != nil {
		return writeError(c, err)
	}
	if updated == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderETag, etag(updated.Version))
	return c.SendStatus(fiber.StatusNoContent)
}

// Patch applies a batch of patch operations; the If-Match token is mandatory.
func (h *SupplierHandler) Patch(c *fiber.Ctx) error {
	id := c.Params("id")

	version, err := IfMatch(c)
	if err != nil {
		return writeError(c, err)
	}

	var ops []supplier.PatchOp
	if err := c.BodyParser(&ops); err != nil {
		return writeError(c, apperr.BadRequest(err.Error()))
	}

	patched, err := h.svc.Patch(c.UserContext(), id, version, ops)
	if err != nil {
		return writeError(c, err)
	}
	if patched == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderETag, etag(patched.Version))
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteByID removes a record; unknown ids are answered 204 as well.
func (h *SupplierHandler) DeleteByID(c *fiber.Ctx) error {
	if err := h.svc.DeleteByID(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteByEmail removes the record with the given email query parameter.
func (h *SupplierHandler) DeleteByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := h.svc.DeleteByEmail(c.UserContext(), email); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
