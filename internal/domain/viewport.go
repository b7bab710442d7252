package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// tileSize is the Web Mercator tile edge in pixels at zoom 0.
const tileSize = 256

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapSettings describes the map frame the viewport is computed for.
type MapSettings struct {
	Center      Geo     // default center for the whole coverage area
	DefaultZoom float64 // default zoom for the whole coverage area
	MaxFitZoom  float64 // cap when fitting a selection, so one small ZIP does not over-zoom
	Padding     int     // pixels kept free on every side when fitting
	Width       int     // map width in pixels
	Height      int     // map height in pixels
}

// Viewport is the map framing derived from the highlight state.
type Viewport struct {
	Center Geo         `json:"center"`
	Zoom   float64     `json:"zoom"`
	Bounds *[4]float64 `json:"bounds,omitempty"` // minLon, minLat, maxLon, maxLat of the fitted area
	Fitted bool        `json:"fitted"`
}

// DefaultViewport frames the whole coverage area.
func (m MapSettings) DefaultViewport() Viewport {
	return Viewport{Center: m.Center, Zoom: m.DefaultZoom}
}

// FitBounds frames bound inside the padded map, Leaflet style: the largest
// whole zoom level at which the bound fits, capped at MaxFitZoom.
func (m MapSettings) FitBounds(bound orb.Bound) Viewport {
	x0, x1 := mercatorX(bound.Min.Lon()), mercatorX(bound.Max.Lon())
	yTop, yBottom := mercatorY(bound.Max.Lat()), mercatorY(bound.Min.Lat())

	w := (x1 - x0) * tileSize
	h := (yBottom - yTop) * tileSize
	availW := math.Max(float64(m.Width-2*m.Padding), 1)
	availH := math.Max(float64(m.Height-2*m.Padding), 1)

	zoom := m.MaxFitZoom
	scale := math.Inf(1)
	if w > 0 {
		scale = math.Min(scale, availW/w)
	}
	if h > 0 {
		scale = math.Min(scale, availH/h)
	}
	if !math.IsInf(scale, 1) {
		zoom = math.Min(math.Floor(math.Log2(scale)), m.MaxFitZoom)
	}
	if zoom < 0 {
		zoom = 0
	}

	return Viewport{
		Center: Geo{
			Lat: inverseMercatorY((yTop + yBottom) / 2),
			Lon: (x0+x1)/2*360 - 180,
		},
		Zoom:   zoom,
		Bounds: &[4]float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()},
		Fitted: true,
	}
}

// ViewportFor derives the viewport from the state: the selected group's drawn
// polygons when something is selected and drawn, the default view otherwise.
func (m MapSettings) ViewportFor(state HighlightState, b Boundaries) Viewport {
	if state.Selected == "" {
		return m.DefaultViewport()
	}
	bound, ok := Bound(b.ForGroup(state.Selected))
	if !ok {
		return m.DefaultViewport()
	}
	return m.FitBounds(bound)
}

func mercatorX(lon float64) float64 {
	return (lon + 180) / 360
}

func mercatorY(lat float64) float64 {
	lat = math.Max(math.Min(lat, 85.05112878), -85.05112878)
	rad := lat * math.Pi / 180
	return (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2
}

func inverseMercatorY(y float64) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y))) * 180 / math.Pi
}
