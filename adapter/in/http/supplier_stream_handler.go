package http

import (
	"bufio"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"supplier_server/adapter/out/realtime"
	"supplier_server/core/service/supplier"
)

// StreamHandler serves the event-stream representations: the one-shot dump of
// all records and the live lifecycle event subscription.
type StreamHandler struct {
	svc *supplier.Service
	hub *realtime.EventHub
	log zerolog.Logger
}

func NewStreamHandler(svc *supplier.Service, hub *realtime.EventHub, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		svc: svc,
		hub: hub,
		log: log.With().Str("handler", "stream").Logger(),
	}
}

// Register registers the lifecycle event subscription route.
func (h *StreamHandler) Register(app fiber.Router, guard Guard) {
	app.Get("/events", guard(RoleSupplier), h.Events)
}

func setStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

// StreamAll writes every record as one SSE event each and closes the stream.
func (h *StreamHandler) StreamAll(c *fiber.Ctx) error {
	all, err := h.svc.FindAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	setStreamHeaders(c)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for i := range all {
			data, err := json.Marshal(all[i])
			if err != nil {
				h.log.Error().Err(err).Str("id", all[i].ID).Msg("failed to serialize record")
				continue
			}
			w.WriteString("data: ")
			w.Write(data)
			w.WriteString("\n\n")
		}
		w.Flush()
	})
	return nil
}

// Events subscribes the client to the lifecycle event stream until it
// disconnects.
func (h *StreamHandler) Events(c *fiber.Ctx) error {
	events := h.hub.Subscribe()
	heartbeat := h.hub.HeartbeatInterval()
	h.log.Info().Msg("stream client connected")

	setStreamHeaders(c)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		defer func() {
			h.hub.Unsubscribe(events)
			h.log.Info().Msg("stream client disconnected")
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				data, err := realtime.SerializeEvent(event)
				if err != nil {
					h.log.Error().Err(err).Msg("failed to serialize event")
					continue
				}
				w.WriteString("event: ")
				w.WriteString(string(event.Type))
				w.WriteString("\ndata: ")
				w.Write(data)
				w.WriteString("\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				w.WriteString(": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}
