package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"supplier_server/core/service/media"
	"supplier_server/pkg/apperr"
)

// MediaHandler streams the binary attachment of a record.
type MediaHandler struct {
	svc *media.Service
	log zerolog.Logger
}

func NewMediaHandler(svc *media.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		svc: svc,
		log: log.With().Str("handler", "media").Logger(),
	}
}

// Register registers the multimedia routes.
func (h *MediaHandler) Register(app fiber.Router, guard Guard) {
	app.Get("/multimedia/:id<guid>", guard(RoleSupplier), h.Download)
	app.Put("/multimedia/:id<guid>", guard(RoleSupplier), h.Upload)
}

// Download streams the stored blob with its original content type.
func (h *MediaHandler) Download(c *fiber.Ctx) error {
	blob, err := h.svc.Find(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if blob == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderContentType, blob.ContentType)
	return c.SendStream(blob.Content, int(blob.Length))
}

// Upload replaces the stored blob. The payload is either the raw request body
// or the multipart part named "file"; a missing content type is rejected.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	id := c.Params("id")

	content, contentType, err := uploadPayload(c)
	if err != nil {
		return writeError(c, err)
	}
	if contentType == "" {
		return writeError(c, apperr.BadRequest("Content-Type fehlt"))
	}

	if err := h.svc.Save(c.UserContext(), id, contentType, content); err != nil {
		return writeError(c, err)
	}

	h.log.Debug().Str("id", id).Str("content_type", contentType).Msg("multimedia stored")
	return c.SendStatus(fiber.StatusNoContent)
}

func uploadPayload(c *fiber.Ctx) (io.Reader, string, error) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["file"]
		if len(files) == 0 {
			return nil, "", apperr.BadRequest("Multipart-Datei fehlt")
		}
		file := files[0]
		part, err := file.Open()
		if err != nil {
			return nil, "", apperr.BadRequest(err.Error())
		}
		return part, file.Header.Get(fiber.HeaderContentType), nil
	}
	return bytes.NewReader(c.Body()), c.Get(fiber.HeaderContentType), nil
}
