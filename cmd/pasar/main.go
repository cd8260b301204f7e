package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pasar-labs/pasar/adapters/confirm"
	"github.com/pasar-labs/pasar/adapters/events"
	"github.com/pasar-labs/pasar/adapters/identity"
	"github.com/pasar-labs/pasar/adapters/store"
	"github.com/pasar-labs/pasar/config"
	"github.com/pasar-labs/pasar/ports"
	"github.com/pasar-labs/pasar/service"
	transport "github.com/pasar-labs/pasar/transport/http"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger()

	cfg := config.Load()
	ctx := context.Background()

	db, err := store.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	profiles, err := store.NewBunProfileRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init profile repository")
	}
	payments, err := store.NewBunPaymentRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init payment repository")
	}
	fees, err := store.NewBunFeeRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init fee repository")
	}
	products := store.NewBunProductRepository(db)

	var nonces ports.NonceGuard
	var eventPub ports.EventPublisher
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse redis url")
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}

		nonces = store.NewRedisNonceGuard(redisClient)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		log.Warn().Msg("no redis configured, using in-process nonce guard and discarding events")
		nonces = store.NewMemoryNonceGuard()
		eventPub = events.NewNopPublisher()
	}

	var idStore ports.Identity
	if cfg.IdentityURL != "" {
		idStore = identity.NewHTTPClient(cfg.IdentityURL, cfg.IdentityServiceKey)
	} else {
		log.Warn().Msg("no identity store configured, using in-process identity with a generated key")
		signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate signing key")
		}
		idStore = identity.NewMemory(signKey)
	}

	authService := service.NewAuthService(profiles, idStore, nonces, eventPub, log)
	paymentService := service.NewPaymentService(payments, fees, products, confirm.NewAlwaysCompleted(), eventPub, log)

	router := transport.SetupRouter(
		transport.NewHandlers(authService, paymentService),
		transport.RouterConfig{
			AllowedOrigins:        cfg.AllowedOrigins,
			AllowedOriginSuffixes: cfg.AllowedOriginSuffixes,
		},
	)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
