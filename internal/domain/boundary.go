package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ZipPropertyKeys are the feature properties that may carry the ZIP code, in
// lookup order. Census ZCTA exports use ZCTA5CE10; municipal exports use ZIP.
var ZipPropertyKeys = []string{"ZCTA5CE10", "ZIP"}

// ZipKey returns the ZIP code identifying a boundary feature, trying each of
// ZipPropertyKeys and returning the first non-empty value.
func ZipKey(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	for _, key := range ZipPropertyKeys {
		if v := propertyString(f.Properties, key); v != "" {
			return v
		}
	}
	return ""
}

func propertyString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Boundaries is the renderable subset of the boundary dataset for one zip
// index. Features are shared with the source collection and must not be
// modified; tier and group are resolved through Index at render time.
type Boundaries struct {
	Index    *ZipIndex
	features []*geojson.Feature
}

// Features returns the drawn features in source order. The slice is a copy;
// the features themselves are shared.
func (b Boundaries) Features() []*geojson.Feature {
	return slices.Clone(b.features)
}

// Len is the number of drawn features.
func (b Boundaries) Len() int { return len(b.features) }

// FilterBoundaries keeps the features whose ZIP is served by index. Features
// without a ZIP key, or whose ZIP is not served, are dropped silently.
func FilterBoundaries(all *geojson.FeatureCollection, index *ZipIndex) Boundaries {
	b := Boundaries{Index: index}
	if all == nil {
		return b
	}
	for _, f := range all.Features {
		if index.Has(ZipKey(f)) {
			b.features = append(b.features, f)
		}
	}
	return b
}

// TierOf looks up the tier of a drawn feature. A feature that no longer
// resolves styles as High.
func (b Boundaries) TierOf(f *geojson.Feature) Tier {
	g, ok := b.Index.Lookup(ZipKey(f))
	if !ok || !g.Tier.Tier.Known() {
		return TierHigh
	}
	return g.Tier.Tier
}

// ForGroup returns the drawn features belonging to groupID.
func (b Boundaries) ForGroup(groupID string) []*geojson.Feature {
	if groupID == "" {
		return nil
	}
	var out []*geojson.Feature
	for _, f := range b.features {
		if b.Index.GroupID(ZipKey(f)) == groupID {
			out = append(out, f)
		}
	}
	return out
}

// Bound returns the union bound of features and whether any had geometry.
func Bound(features []*geojson.Feature) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if !found {
			bound = fb
			found = true
			continue
		}
		bound = bound.Union(fb)
	}
	return bound, found
}

// MissingZips lists served ZIPs that have no drawn feature. They still appear
// in the grid.
func (b Boundaries) MissingZips() []string {
	drawn := make(map[string]struct{}, len(b.features))
	for _, f := range b.features {
		drawn[ZipKey(f)] = struct{}{}
	}
	var missing []string
	for _, z := range b.Index.Zips() {
		if _, ok := drawn[z]; !ok {
			missing = append(missing, z)
		}
	}
	return missing
}
