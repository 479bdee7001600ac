package cluster

import (
	"math"

	"github.com/paulmach/orb"
)

// Item is anything that can be clustered. Identity is Go equality, so items
// are normally pointers. Geometry returns nil when the item has no shape.
type Item interface {
	comparable
	Geometry() orb.Geometry
}

// Measured is implemented by items that carry numeric metrics. Summaries
// roll these up per cluster.
type Measured interface {
	MetricValues() map[string]float32
}

// Described is implemented by items that carry free-form metadata.
type Described interface {
	MetadataValues() map[string]interface{}
}

// Location returns the point location of an item. Items whose geometry is
// not a point, or whose point has a non-finite coordinate, have no usable
// location and are skipped at ingestion.
func Location[T Item](item T) (orb.Point, bool) {
	p, ok := item.Geometry().(orb.Point)
	if !ok {
		return orb.Point{}, false
	}
	if !finite(p[0]) || !finite(p[1]) {
		return orb.Point{}, false
	}
	return p, true
}

// representativePoint is the point used when summarising an item: its own
// location for points, the centre of its bound for anything else.
func representativePoint[T Item](item T) (orb.Point, bool) {
	g := item.Geometry()
	if g == nil {
		return orb.Point{}, false
	}
	if p, ok := g.(orb.Point); ok {
		return p, true
	}
	return g.Bound().Center(), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
