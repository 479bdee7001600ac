// Package itemsource provides the point items clustered by the servers, test
// data generation and the on-disk dataset format.
package itemsource

import (
	"github.com/paulmach/orb"
)

// Feature is a point item. Point is in Web Mercator map units.
type Feature struct {
	ID       uint32
	Point    orb.Point
	Missing  bool // no location; the feature is skipped by the index
	Metrics  map[string]float32
	Metadata map[string]interface{}
}

// Geometry implements cluster.Item.
func (f *Feature) Geometry() orb.Geometry {
	if f == nil || f.Missing {
		return nil
	}
	return f.Point
}

// MetricValues implements cluster.Measured.
func (f *Feature) MetricValues() map[string]float32 {
	return f.Metrics
}

// MetadataValues implements cluster.Described.
func (f *Feature) MetadataValues() map[string]interface{} {
	return f.Metadata
}

// Properties are the GeoJSON properties of the feature when drawn on its own.
func (f *Feature) Properties() map[string]interface{} {
	props := map[string]interface{}{
		"id": f.ID,
	}
	if len(f.Metrics) > 0 {
		props["metrics"] = f.Metrics
	}
	for k, v := range f.Metadata {
		props[k] = v
	}
	return props
}
