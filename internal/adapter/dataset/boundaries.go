package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
)

// LoadBoundaries decodes a GeoJSON FeatureCollection of ZIP polygons.
func LoadBoundaries(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return parseBoundaries(data)
}

// LoadBoundariesFile reads the boundary collection from path.
func LoadBoundariesFile(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open boundaries: %w", err)
	}
	return parseBoundaries(data)
}

func parseBoundaries(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	return fc, nil
}
