package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/scopesignals/coverage/internal/adapter/dataset"
	httpadapter "github.com/scopesignals/coverage/internal/adapter/http"
	kafkaadapter "github.com/scopesignals/coverage/internal/adapter/kafka"
	"github.com/scopesignals/coverage/internal/config"
	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := dataset.Load(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}

	catalog := coverage.NewCatalog(ds.PriceBook, ds.Boundaries, cfg.CoverageCacheSize, logger, metrics)
	for _, s := range catalog.Summaries() {
		logger.Info("module coverage",
			"module", s.Module,
			"groups", s.Groups,
			"zips", s.Zips,
			"missing_boundaries", len(s.MissingBoundaries),
		)
	}

	// Selection events go to Kafka when enabled, otherwise to the log.
	var loader coverage.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSelectionTopic)
	} else {
		loader = coverage.NewLogLoader(logger)
		logger.Info("kafka publishing disabled")
	}
	publisher := coverage.NewPublisher(loader, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, nil)

	sessions := coverage.NewStore(catalog, cfg.SessionTTL, nil, logger, metrics)
	sessions.OnSelection(publisher.Publish)

	defaultModule, err := domain.ParseModule(cfg.DefaultModule)
	if err != nil {
		logger.Error("invalid default module", "error", err)
		os.Exit(1)
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, catalog, sessions, cfg.MapSettings(), defaultModule, publisher, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sessions.Run(ctx); err != nil {
			logger.Error("session sweeper error", "error", err)
		}
	}()

	published := make(chan struct{})
	go func() {
		defer close(published)
		if err := publisher.Run(ctx); err != nil {
			logger.Error("publisher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-published:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown timeout")
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
