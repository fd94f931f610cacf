package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/notification"
	notifhandlers "github.com/arda-labs/social-derivation/internal/notification/handlers"
	"github.com/arda-labs/social-derivation/internal/notification/push"
	"github.com/arda-labs/social-derivation/internal/store/postgres"
	transporthttp "github.com/arda-labs/social-derivation/internal/transport/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadNotificationConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting notification-engine")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	repo := postgres.NewNotificationRepository(pool)
	prefs := postgres.NewPreferenceRepository(pool)
	pusher := push.NewDispatcher(cfg.Push)

	aggregationWindow := time.Duration(cfg.Aggregation.WindowMinutes) * time.Minute
	svc := notification.NewService(repo, prefs, pusher, aggregationWindow)

	notifhandlers.Register(svc)

	handler := transporthttp.NewNotificationHandler(svc)
	router := transporthttp.NewNotificationRouter(handler, os.Getenv("JWT_SECRET"))

	consumer, err := bus.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, cfg.Kafka.Topics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bus consumer")
	}

	go consumer.Start(ctx)
	log.Info().Strs("topics", cfg.Kafka.Topics).Msg("bus consumer started")

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				svc.PurgeTTL(context.Background(), cfg.Retention.RetentionDays)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	consumer.Close()

	log.Info().Msg("notification-engine stopped")
}
