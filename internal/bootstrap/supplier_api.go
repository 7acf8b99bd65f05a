package bootstrap

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/rs/zerolog"

	"supplier_server/adapter/in/http"
	"supplier_server/config"
	"supplier_server/infra/middleware"
)

// NewAPI builds the configured fiber app with all routes registered. The
// returned cleanup closes the external connections.
func NewAPI(cfg *config.Config, log zerolog.Logger) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize dependencies")
		return nil, nil, err
	}

	if cfg.IsDevelopment() {
		if err := SeedDevData(deps, log); err != nil {
			log.Warn().Err(err).Msg("failed to seed development data")
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(log),
		DisableStartupMessage: cfg.IsProduction(),

		// go-json over encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 10 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover(log))
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Health check (no auth required)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	guard := func(roles ...string) fiber.Handler {
		return middleware.BasicAuth(deps.UserService, roles...)
	}

	streamHandler := http.NewStreamHandler(deps.SupplierService, deps.EventHub, log)
	supplierHandler := http.NewSupplierHandler(deps.SupplierService, streamHandler, log)
	valuesHandler := http.NewValuesHandler(deps.SupplierService, log)
	mediaHandler := http.NewMediaHandler(deps.MediaService, log)
	authHandler := http.NewAuthHandler(log)

	// Values, multimedia, stream and auth routes register first: their fixed
	// prefixes must win over the parameterized record routes.
	valuesHandler.Register(app, guard)
	mediaHandler.Register(app, guard)
	streamHandler.Register(app, guard)
	authHandler.Register(app, guard)
	supplierHandler.Register(app, guard)

	return app, cleanup, nil
}
