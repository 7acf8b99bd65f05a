// Package middleware provides the cross-cutting request middleware.
package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"supplier_server/pkg/apperr"
)

// ErrorHandler is the central fallback for errors that escape the handlers.
// Handler-level rendering covers the domain error formats; this one catches
// router errors and anything unexpected.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	log = log.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals("request_id").(string)

		switch e := err.(type) {
		case *apperr.AppError:
			event := log.Warn()
			if e.Status >= 500 {
				event = log.Error()
			}
			event.Str("request_id", requestID).Str("code", e.Code).Err(e.Err).Msg(e.Message)

			if e.Code == apperr.CodeValidationFailed {
				return c.Status(e.Status).JSON(e.Violations)
			}
			return c.Status(e.Status).JSON(fiber.Map{"code": e.Code, "message": e.Message})

		case *fiber.Error:
			return c.Status(e.Code).SendString(e.Message)

		default:
			log.Error().
				Str("request_id", requestID).
				Err(err).
				Str("stack", string(debug.Stack())).
				Msg("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":    apperr.CodeInternalError,
				"message": "internal server error",
			})
		}
	}
}

// RequestID assigns each request a unique id, honoring a caller-supplied one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// RequestLogger logs every request with its outcome and duration.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	log = log.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		requestID, _ := c.Locals("request_id").(string)
		status := c.Response().StatusCode()

		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request completed")

		return err
	}
}

// Recover turns handler panics into 500 responses.
func Recover(log zerolog.Logger) fiber.Handler {
	log = log.With().Str("component", "recover").Logger()

	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals("request_id").(string)
				log.Error().
					Str("request_id", requestID).
					Str("method", c.Method()).
					Str("path", c.Path()).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"code":    apperr.CodeInternalError,
					"message": "internal server error",
				})
			}
		}()
		return c.Next()
	}
}
