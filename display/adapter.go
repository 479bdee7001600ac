// Package display turns the clusters of one level into drawable records: a
// point per cluster big enough to aggregate, the member items of the ones
// that are not, and optionally the coverage polygon of every cluster.
package display

import (
	"strconv"
	"web/lodcluster/cluster"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultMinClusterCount is the smallest cluster drawn as an aggregate.
// Smaller clusters are exploded into their items.
const DefaultMinClusterCount = 3

// Attribute names carried by cluster and coverage records.
const (
	AttrKey                = "Key"
	AttrFeatureCount       = "FeatureCount"
	AttrShouldDisplayItems = "ShouldDisplayItems"
	AttrSizeClass          = "SizeClass"
	AttrArea               = "Area"
)

// Component is one of the three things a layer draws.
type Component int

const (
	Clusters Component = iota
	Coverages
	Items
)

// Components lists every component in the order a layer redraws them.
var Components = []Component{Clusters, Items, Coverages}

func (c Component) String() string {
	switch c {
	case Clusters:
		return "Clusters"
	case Coverages:
		return "Coverages"
	case Items:
		return "Items"
	default:
		return "Component(" + strconv.Itoa(int(c)) + ")"
	}
}

// Record is one drawable feature.
type Record struct {
	Component  Component
	Geometry   orb.Geometry
	Attributes map[string]interface{}
}

// Propertied items supply their own attributes when drawn individually.
type Propertied interface {
	Properties() map[string]interface{}
}

// Adapter renders clusters. The zero value is not ready for use; call
// NewAdapter.
type Adapter[T cluster.Item] struct {
	MinClusterCount int
	ShowCoverages   bool

	logger *cluster.Logger
}

// NewAdapter returns an adapter with the default explode threshold and
// coverages hidden. A nil logger discards.
func NewAdapter[T cluster.Item](logger *cluster.Logger) *Adapter[T] {
	if logger == nil {
		logger = cluster.NoopLogger()
	}
	return &Adapter[T]{
		MinClusterCount: DefaultMinClusterCount,
		logger:          logger,
	}
}

func (a *Adapter[T]) threshold() int {
	if a.MinClusterCount < 1 {
		return DefaultMinClusterCount
	}
	return a.MinClusterCount
}

// ShouldExplode reports whether c is drawn as its items rather than as an
// aggregate.
func (a *Adapter[T]) ShouldExplode(c *cluster.Cluster[T]) bool {
	return c.ItemCount() < a.threshold()
}

// Records renders one component of clusters. Coverages are only rendered
// when ShowCoverages is set. Clusters with no merged items are skipped.
func (a *Adapter[T]) Records(clusters []*cluster.Cluster[T], component Component) []Record {
	switch component {
	case Clusters:
		return a.clusterRecords(clusters)
	case Coverages:
		if !a.ShowCoverages {
			return nil
		}
		return a.coverageRecords(clusters)
	case Items:
		return a.itemRecords(clusters)
	}
	return nil
}

func (a *Adapter[T]) clusterRecords(clusters []*cluster.Cluster[T]) []Record {
	var out []Record
	for _, c := range clusters {
		count := c.ItemCount()
		if count == 0 || count < a.threshold() {
			continue
		}
		centroid, ok := c.Centroid()
		if !ok {
			a.logger.Error("cluster has no centroid", "key", c.Key(), "cell", c.Cell().String())
			continue
		}
		out = append(out, Record{
			Component:  Clusters,
			Geometry:   centroid,
			Attributes: a.attributes(c.Key(), count),
		})
	}
	return out
}

func (a *Adapter[T]) coverageRecords(clusters []*cluster.Cluster[T]) []Record {
	var out []Record
	for _, c := range clusters {
		count := c.ItemCount()
		if count == 0 {
			continue
		}
		coverage, ok := c.Coverage()
		if !ok {
			a.logger.Error("cluster has no coverage", "key", c.Key(), "cell", c.Cell().String())
			continue
		}
		attrs := a.attributes(c.Key(), count)
		attrs[AttrArea] = planar.Area(coverage)
		out = append(out, Record{
			Component:  Coverages,
			Geometry:   coverage,
			Attributes: attrs,
		})
	}
	return out
}

func (a *Adapter[T]) itemRecords(clusters []*cluster.Cluster[T]) []Record {
	var out []Record
	for _, c := range clusters {
		if !a.ShouldExplode(c) {
			continue
		}
		for _, item := range c.Items() {
			g := item.Geometry()
			if g == nil {
				continue
			}
			var attrs map[string]interface{}
			if p, ok := any(item).(Propertied); ok {
				attrs = p.Properties()
			}
			out = append(out, Record{
				Component:  Items,
				Geometry:   g,
				Attributes: attrs,
			})
		}
	}
	return out
}

func (a *Adapter[T]) attributes(key int64, count int) map[string]interface{} {
	shouldDisplayItems := 0
	if count < a.threshold() {
		shouldDisplayItems = -1
	}
	return map[string]interface{}{
		AttrKey:                strconv.FormatInt(key, 10),
		AttrFeatureCount:       count,
		AttrShouldDisplayItems: shouldDisplayItems,
		AttrSizeClass:          SizeClass(count),
	}
}

// SizeClass buckets a feature count for symbol sizing.
func SizeClass(count int) string {
	switch {
	case count < 100:
		return "small"
	case count < 1000:
		return "medium"
	default:
		return "large"
	}
}
