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
	"github.com/arda-labs/social-derivation/internal/feed"
	feedhandlers "github.com/arda-labs/social-derivation/internal/feed/handlers"
	"github.com/arda-labs/social-derivation/internal/store/postgres"
	"github.com/arda-labs/social-derivation/internal/store/rediscache"
	transporthttp "github.com/arda-labs/social-derivation/internal/transport/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadFeedConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting feed-engine")

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

	cache, err := rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()
	log.Info().Msg("redis connected")

	repo := postgres.NewFeedMetadataRepository(pool)

	scoreTTL := time.Duration(cfg.Cache.ScoreTTLSeconds) * time.Second
	feedTTL := time.Duration(cfg.Cache.FeedTTLSeconds) * time.Second

	scorer := feed.NewScorer(repo, cache, cfg.Scoring, scoreTTL)
	assembler := feed.NewAssembler(repo, cache, scorer, cfg.Cache, feedTTL)
	trending := feed.NewTrending(repo, cache, scorer, cfg.Cache.TrendingWindowHrs, feedTTL)
	invalidator := feed.NewInvalidator(repo, cache)

	feedhandlers.Register(invalidator)

	handler := transporthttp.NewFeedHandler(assembler, trending)
	router := transporthttp.NewFeedRouter(handler, os.Getenv("JWT_SECRET"))

	consumer, err := bus.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, cfg.Kafka.Topics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bus consumer")
	}

	go consumer.Start(ctx)
	log.Info().Strs("topics", cfg.Kafka.Topics).Msg("bus consumer started")

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

	log.Info().Msg("feed-engine stopped")
}
