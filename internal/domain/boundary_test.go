package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns a feature with a 0.01 degree square polygon at lon/lat.
func square(key, zip string, lon, lat float64) *geojson.Feature {
	const d = 0.01
	f := geojson.NewFeature(orb.Polygon{orb.Ring{
		{lon, lat}, {lon + d, lat}, {lon + d, lat + d}, {lon, lat + d}, {lon, lat},
	}})
	if key != "" {
		f.Properties[key] = zip
	}
	return f
}

func testCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(square("ZCTA5CE10", "98103", -122.35, 47.66))
	fc.Append(square("ZIP", "98107", -122.38, 47.67))
	fc.Append(square("ZCTA5CE10", "98117", -122.38, 47.69))
	fc.Append(square("ZCTA5CE10", "10001", -73.99, 40.75))
	fc.Append(square("", "", -122.30, 47.60))
	return fc
}

func weedsIndex() *ZipIndex {
	return NewZipIndex(BuildGroups([]PriceBookEntry{
		entry(ModuleWeeds, "98103", "Premium", 300, 0),
		entry(ModuleWeeds, "98107, 98117", "High", 150, 0),
	}, ModuleWeeds))
}

func TestZipKey(t *testing.T) {
	f := geojson.NewFeature(orb.Point{0, 0})
	assert.Empty(t, ZipKey(f))

	f.Properties["ZIP"] = 98107.0
	assert.Equal(t, "98107", ZipKey(f))

	f.Properties["ZCTA5CE10"] = " 98117 "
	assert.Equal(t, "98117", ZipKey(f), "ZCTA5CE10 takes precedence")

	assert.Empty(t, ZipKey(nil))
}

func TestFilterBoundaries(t *testing.T) {
	b := FilterBoundaries(testCollection(), weedsIndex())

	require.Equal(t, 3, b.Len())
	for _, f := range b.Features() {
		assert.True(t, b.Index.Has(ZipKey(f)))
	}
	assert.Empty(t, b.MissingZips())
}

func TestBoundaries_FeaturesCopied(t *testing.T) {
	b := FilterBoundaries(testCollection(), weedsIndex())

	out := b.Features()
	out[0] = nil
	_ = append(out[:1], square("ZIP", "00000", 0, 0))

	require.Equal(t, 3, b.Len())
	assert.Equal(t, "98103", ZipKey(b.Features()[0]))
	assert.Empty(t, b.MissingZips())
}

func TestFilterBoundaries_Rebuild(t *testing.T) {
	all := testCollection()
	narrow := NewZipIndex(BuildGroups([]PriceBookEntry{
		entry(ModuleDumping, "98103", "Low", 90, 0),
	}, ModuleDumping))

	assert.Len(t, FilterBoundaries(all, narrow).Features(), 1)
	assert.Len(t, FilterBoundaries(all, weedsIndex()).Features(), 3, "features excluded before come back")
}

func TestFilterBoundaries_NilCollection(t *testing.T) {
	b := FilterBoundaries(nil, weedsIndex())
	assert.Empty(t, b.Features())
	assert.Equal(t, []string{"98103", "98107", "98117"}, b.MissingZips())
}

func TestBoundaries_TierOfAndForGroup(t *testing.T) {
	b := FilterBoundaries(testCollection(), weedsIndex())

	assert.Equal(t, TierPremium, b.TierOf(b.Features()[0]))
	assert.Equal(t, TierHigh, b.TierOf(square("ZIP", "00000", 0, 0)), "unresolved falls back to High")

	features := b.ForGroup("group-1")
	require.Len(t, features, 2)
	assert.Nil(t, b.ForGroup(""))

	bound, ok := Bound(features)
	require.True(t, ok)
	assert.InDelta(t, -122.38, bound.Min.Lon(), 1e-9)
	assert.InDelta(t, 47.67, bound.Min.Lat(), 1e-9)
	assert.InDelta(t, 47.70, bound.Max.Lat(), 1e-9)

	_, ok = Bound(nil)
	assert.False(t, ok)
}
