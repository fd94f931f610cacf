package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/search"
	searchhandlers "github.com/arda-labs/social-derivation/internal/search/handlers"
	"github.com/arda-labs/social-derivation/internal/store/searchindex"
	transporthttp "github.com/arda-labs/social-derivation/internal/transport/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadSearchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting search-engine")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	esClient, err := searchindex.New(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to elasticsearch")
	}

	if err := esClient.InitializeIndices(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search indices")
	}
	log.Info().Msg("elasticsearch connected")

	indexer := search.NewIndexer(esClient)
	query := search.NewQuery(esClient)

	searchhandlers.Register(indexer, cfg.Indexing.MaxRetries)

	handler := transporthttp.NewSearchHandler(query)
	router := transporthttp.NewSearchRouter(handler, os.Getenv("JWT_SECRET"))

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

	log.Info().Msg("search-engine stopped")
}
