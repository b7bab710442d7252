package view

import (
	"slices"

	"github.com/paulmach/orb/geojson"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

// Feature property keys written on every rendered polygon.
const (
	PropZip           = "zip"
	PropGroupID       = "group_id"
	PropTier          = "tier"
	PropEmphasis      = "emphasis"
	PropColor         = "color"
	PropWeight        = "weight"
	PropStrokeOpacity = "stroke_opacity"
	PropFillOpacity   = "fill_opacity"
	PropElevated      = "elevated"
)

// MapView is the rendered map: styled polygons, the framing, and whether the
// zoom-out control is shown.
type MapView struct {
	Features    *geojson.FeatureCollection `json:"features"`
	Viewport    domain.Viewport            `json:"viewport"`
	ZoomOut     bool                       `json:"zoom_out"`
	MissingZips []string                   `json:"missing_zips,omitempty"`
}

// RenderMap styles every drawn boundary from the state. Elevated polygons are
// ordered last so they draw on top. Source features are never modified; each
// rendered feature shares the geometry and gets fresh properties.
func RenderMap(cov *coverage.Coverage, state domain.HighlightState, settings domain.MapSettings) MapView {
	fc := geojson.NewFeatureCollection()
	if cov == nil {
		return MapView{Features: fc, Viewport: settings.DefaultViewport()}
	}

	b := cov.Boundaries
	for _, src := range b.Features() {
		zip := domain.ZipKey(src)
		groupID := b.Index.GroupID(zip)
		tier := b.TierOf(src)
		style, emphasis := domain.StyleFor(tier, state, groupID)

		f := geojson.NewFeature(src.Geometry)
		f.ID = zip
		f.Properties[PropZip] = zip
		f.Properties[PropGroupID] = groupID
		f.Properties[PropTier] = string(tier)
		f.Properties[PropEmphasis] = string(emphasis)
		f.Properties[PropColor] = style.Color
		f.Properties[PropWeight] = style.Weight
		f.Properties[PropStrokeOpacity] = style.StrokeOpacity
		f.Properties[PropFillOpacity] = style.FillOpacity
		f.Properties[PropElevated] = style.Elevated
		fc.Append(f)
	}

	slices.SortStableFunc(fc.Features, func(a, b *geojson.Feature) int {
		return boolRank(a.Properties.MustBool(PropElevated, false)) - boolRank(b.Properties.MustBool(PropElevated, false))
	})

	return MapView{
		Features:    fc,
		Viewport:    settings.ViewportFor(state, b),
		ZoomOut:     state.Selected != "",
		MissingZips: b.MissingZips(),
	}
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}
