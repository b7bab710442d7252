package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/scopesignals/coverage/internal/config"
	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

// Datasets are the two static inputs of the coverage core.
type Datasets struct {
	PriceBook  []domain.PriceBookEntry
	Boundaries *geojson.FeatureCollection
}

// Load reads the price book and the boundary collection concurrently. The
// boundaries come from BOUNDARIES_URL when set, otherwise from BOUNDARIES_PATH.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Datasets, error) {
	var ds Datasets
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		start := time.Now()
		entries, err := LoadPriceBookFile(cfg.PriceBookPath)
		if err != nil {
			return err
		}
		metrics.DatasetLoadDuration.WithLabelValues("pricebook").Observe(time.Since(start).Seconds())
		logger.Info("price book loaded", "path", cfg.PriceBookPath, "rows", len(entries))
		ds.PriceBook = entries
		return nil
	})

	eg.Go(func() error {
		start := time.Now()
		fc, source, err := loadBoundaries(egCtx, cfg, logger)
		if err != nil {
			return err
		}
		metrics.DatasetLoadDuration.WithLabelValues("boundaries").Observe(time.Since(start).Seconds())
		logger.Info("boundaries loaded", "source", source, "features", len(fc.Features))
		ds.Boundaries = fc
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	return &ds, nil
}

func loadBoundaries(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*geojson.FeatureCollection, string, error) {
	if cfg.BoundariesURL == "" {
		fc, err := LoadBoundariesFile(cfg.BoundariesPath)
		return fc, cfg.BoundariesPath, err
	}
	data, err := NewFetcher(cfg.BoundariesTimeout, logger).Fetch(ctx, cfg.BoundariesURL)
	if err != nil {
		return nil, cfg.BoundariesURL, err
	}
	fc, err := parseBoundaries(data)
	return fc, cfg.BoundariesURL, err
}
