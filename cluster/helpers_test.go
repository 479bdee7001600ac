package cluster

import (
	"math/rand"

	"github.com/paulmach/orb"
)

type testItem struct {
	id       int
	geom     orb.Geometry
	metrics  map[string]float32
	metadata map[string]interface{}
}

func (t *testItem) Geometry() orb.Geometry                 { return t.geom }
func (t *testItem) MetricValues() map[string]float32       { return t.metrics }
func (t *testItem) MetadataValues() map[string]interface{} { return t.metadata }

func pt(id int, x, y float64) *testItem {
	return &testItem{id: id, geom: orb.Point{x, y}}
}

// randomItems spreads n items over a box of Web Mercator coordinates
// roughly the size of a continent.
func randomItems(n int, seed int64) []*testItem {
	r := rand.New(rand.NewSource(seed))
	items := make([]*testItem, n)
	for i := range items {
		items[i] = pt(i+1,
			-13_900_000+r.Float64()*6_400_000,
			2_800_000+r.Float64()*3_500_000,
		)
	}
	return items
}
