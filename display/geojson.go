package display

import (
	"web/lodcluster/cluster"

	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders every component of clusters as GeoJSON. Each
// feature carries a "component" property naming what it is, plus the
// "cluster" and "point_count" properties web map clients expect.
func (a *Adapter[T]) FeatureCollection(clusters []*cluster.Cluster[T]) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, component := range Components {
		for _, rec := range a.Records(clusters, component) {
			fc.Append(rec.Feature())
		}
	}
	return fc
}

// Feature converts a record to a GeoJSON feature.
func (r Record) Feature() *geojson.Feature {
	f := geojson.NewFeature(r.Geometry)
	for k, v := range r.Attributes {
		f.Properties[k] = v
	}
	f.Properties["component"] = r.Component.String()

	switch r.Component {
	case Clusters, Coverages:
		f.Properties["cluster"] = r.Component == Clusters
		f.Properties["point_count"] = r.Attributes[AttrFeatureCount]
	case Items:
		f.Properties["cluster"] = false
		f.Properties["point_count"] = 1
	}
	return f
}
