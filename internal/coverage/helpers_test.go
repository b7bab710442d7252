package coverage_test

import (
	"log/slog"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func row(module domain.Module, zips, tier string, price int64, volume float64) domain.PriceBookEntry {
	return domain.PriceBookEntry{
		Module:       module,
		Zips:         zips,
		Tier:         tier,
		MonthlyPrice: decimal.NewFromInt(price),
		YearlyVolume: volume,
	}
}

// testPriceBook holds the weeds example plus a dumping module that shares group ids.
func testPriceBook() []domain.PriceBookEntry {
	return []domain.PriceBookEntry{
		row(domain.ModuleWeeds, "98103", "Premium", 300, 0),
		row(domain.ModuleWeeds, "98107, 98117", "High", 150, 0),
		row(domain.ModuleDumping, "98117", "Low", 90, 40),
		row(domain.ModuleDumping, "98199", "", 90, 40),
	}
}

func zipSquare(zip string, lon, lat float64) *geojson.Feature {
	const d = 0.01
	f := geojson.NewFeature(orb.Polygon{orb.Ring{
		{lon, lat}, {lon + d, lat}, {lon + d, lat + d}, {lon, lat + d}, {lon, lat},
	}})
	f.Properties["ZCTA5CE10"] = zip
	return f
}

func testBoundaries() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(zipSquare("98103", -122.35, 47.66))
	fc.Append(zipSquare("98107", -122.38, 47.67))
	fc.Append(zipSquare("98117", -122.38, 47.69))
	fc.Append(zipSquare("98199", -122.40, 47.64))
	return fc
}

func newTestCatalog(t *testing.T) *coverage.Catalog {
	t.Helper()
	return coverage.NewCatalog(testPriceBook(), testBoundaries(), 4, slog.Default(), newTestMetrics())
}
