// Package coverage owns the per-module coverage builds and the highlight
// sessions that render them.
package coverage

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

// Coverage is everything derived from the datasets for one module. It is
// immutable once built; a module change swaps in a different Coverage.
type Coverage struct {
	Module     domain.Module
	Groups     []domain.Group
	Index      *domain.ZipIndex
	Boundaries domain.Boundaries
}

// Catalog builds coverage per module from the static price book and boundary
// dataset. Builds are memoized by module; groups, index and filtered
// boundaries are computed together so filtering only reruns on a new index.
type Catalog struct {
	entries    []domain.PriceBookEntry
	boundaries *geojson.FeatureCollection
	builds     *lruCache[domain.Module, *Coverage]
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewCatalog creates a Catalog over the loaded datasets. cacheSize bounds the
// number of memoized module builds.
func NewCatalog(entries []domain.PriceBookEntry, boundaries *geojson.FeatureCollection, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Catalog {
	if boundaries == nil {
		boundaries = geojson.NewFeatureCollection()
	}
	return &Catalog{
		entries:    entries,
		boundaries: boundaries,
		builds:     newLRUCache[domain.Module, *Coverage](cacheSize),
		logger:     logger,
		metrics:    metrics,
	}
}

// Coverage returns the build for module, computing it on first use.
func (c *Catalog) Coverage(module domain.Module) (*Coverage, error) {
	if !slices.Contains(domain.Modules, module) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModule, module)
	}
	if cov, ok := c.builds.get(module); ok {
		c.metrics.CoverageCache.WithLabelValues("hit").Inc()
		return cov, nil
	}
	c.metrics.CoverageCache.WithLabelValues("miss").Inc()

	cov := c.build(module)
	c.builds.put(module, cov)
	return cov, nil
}

func (c *Catalog) build(module domain.Module) *Coverage {
	start := time.Now()

	groups := domain.BuildGroups(c.entries, module)
	index := domain.NewZipIndex(groups)
	cov := &Coverage{
		Module:     module,
		Groups:     groups,
		Index:      index,
		Boundaries: domain.FilterBoundaries(c.boundaries, index),
	}

	c.metrics.CoverageBuilds.WithLabelValues(string(module)).Inc()
	c.metrics.CoverageBuildDuration.Observe(time.Since(start).Seconds())
	c.logger.Debug("coverage built",
		"module", module,
		"groups", len(groups),
		"zips", index.Len(),
		"features", cov.Boundaries.Len(),
	)
	return cov
}

// ModuleSummary is the per-module overview served alongside the module list.
type ModuleSummary struct {
	Module            domain.Module       `json:"module"`
	Groups            int                 `json:"groups"`
	PricedGroups      int                 `json:"priced_groups"`
	GroupsByTier      map[domain.Tier]int `json:"groups_by_tier"`
	Zips              int                 `json:"zips"`
	DrawnBoundaries   int                 `json:"drawn_boundaries"`
	MissingBoundaries []string            `json:"missing_boundaries,omitempty"`
}

// Summaries returns one summary per module in display order.
func (c *Catalog) Summaries() []ModuleSummary {
	out := make([]ModuleSummary, 0, len(domain.Modules))
	for _, m := range domain.Modules {
		cov, err := c.Coverage(m)
		if err != nil {
			continue
		}
		out = append(out, summarize(cov))
	}
	return out
}

func summarize(cov *Coverage) ModuleSummary {
	s := ModuleSummary{
		Module:            cov.Module,
		Groups:            len(cov.Groups),
		GroupsByTier:      make(map[domain.Tier]int),
		Zips:              cov.Index.Len(),
		DrawnBoundaries:   cov.Boundaries.Len(),
		MissingBoundaries: cov.Boundaries.MissingZips(),
	}
	for _, g := range cov.Groups {
		s.GroupsByTier[g.Tier.Tier]++
		if g.HasListedPrice() {
			s.PricedGroups++
		}
	}
	return s
}
