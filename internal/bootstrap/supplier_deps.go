// Package bootstrap wires the adapters and services into the running server.
package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"supplier_server/adapter/out/cache"
	"supplier_server/adapter/out/mail"
	"supplier_server/adapter/out/mongodb"
	"supplier_server/adapter/out/realtime"
	"supplier_server/config"
	"supplier_server/core/port/out"
	"supplier_server/core/service/auth"
	"supplier_server/core/service/media"
	"supplier_server/core/service/supplier"
)

type Dependencies struct {
	Config  *config.Config
	MongoDB *mongo.Client
	Redis   *redis.Client

	// Repositories
	SupplierRepo *mongodb.SupplierAdapter
	UserRepo     *mongodb.UserAdapter
	MediaStore   *mongodb.MediaAdapter

	// Collaborators
	Cache    out.SupplierCache
	Notifier *mail.Mailer
	EventHub *realtime.EventHub

	// Services
	SupplierService *supplier.Service
	UserService     *auth.Service
	MediaService    *media.Service
}

// NewDependencies connects the external systems and wires all adapters and
// services. The returned cleanup closes the connections.
func NewDependencies(cfg *config.Config, log zerolog.Logger) (*Dependencies, func(), error) {
	mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
	if err != nil {
		return nil, nil, err
	}
	db := mongoClient.Database(cfg.MongoDBName)

	supplierRepo := mongodb.NewSupplierAdapter(db)
	userRepo := mongodb.NewUserAdapter(db)
	mediaStore, err := mongodb.NewMediaAdapter(db)
	if err != nil {
		disconnect(mongoClient, log)
		return nil, nil, err
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := supplierRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure supplier indexes")
	}
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	// Redis is optional: without an endpoint the cache degrades to a no-op.
	var redisClient *redis.Client
	var supplierCache out.SupplierCache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("invalid redis url, caching disabled")
		} else {
			redisClient = redis.NewClient(opts)
			supplierCache = cache.NewRedisCache(redisClient, cfg.CacheTTL, log)
		}
	}

	notifier := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Sales:    cfg.MailSales,
	}, log)

	eventHub := realtime.NewEventHub(log)

	userService := auth.NewService(userRepo, log)
	supplierService := supplier.NewService(supplierRepo, userService, log,
		supplier.WithTimeouts(cfg.TimeoutShort, cfg.TimeoutLong),
		supplier.WithCache(supplierCache),
		supplier.WithNotifier(notifier),
		supplier.WithEventBus(eventHub),
	)
	mediaService := media.NewService(supplierRepo, mediaStore, log)

	deps := &Dependencies{
		Config:          cfg,
		MongoDB:         mongoClient,
		Redis:           redisClient,
		SupplierRepo:    supplierRepo,
		UserRepo:        userRepo,
		MediaStore:      mediaStore,
		Cache:           supplierCache,
		Notifier:        notifier,
		EventHub:        eventHub,
		SupplierService: supplierService,
		UserService:     userService,
		MediaService:    mediaService,
	}

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis client")
			}
		}
		disconnect(mongoClient, log)
	}
	return deps, cleanup, nil
}

func disconnect(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to disconnect mongodb client")
	}
}
