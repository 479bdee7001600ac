package itemsource

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ContinentalUS is the default lon/lat box test data is generated in.
var ContinentalUS = orb.Bound{
	Min: orb.Point{-125.0, 25.0},
	Max: orb.Point{-67.0, 49.0},
}

var categories = []string{"A", "B", "C"}

// GenerateTestFeatures returns n features spread uniformly over a lon/lat
// bound, projected to Web Mercator. The same seed yields the same locations
// and metrics; timestamps are relative to the time of the call.
func GenerateTestFeatures(n int, bounds orb.Bound, seed int64) []*Feature {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC().Truncate(time.Second)
	randomMetricName := fmt.Sprintf("metric_%d", rng.Intn(1000))

	features := make([]*Feature, n)
	for i := 0; i < n; i++ {
		lon := bounds.Min[0] + rng.Float64()*(bounds.Max[0]-bounds.Min[0])
		lat := bounds.Min[1] + rng.Float64()*(bounds.Max[1]-bounds.Min[1])

		features[i] = &Feature{
			ID:    uint32(i + 1),
			Point: project.WGS84.ToMercator(orb.Point{lon, lat}),
			Metrics: map[string]float32{
				"value":          rng.Float32() * 100,
				"size":           rng.Float32() * 50,
				"sales":          rng.Float32() * 1000,
				"customers":      float32(rng.Intn(100)),
				randomMetricName: rng.Float32() * 200,
			},
			Metadata: map[string]interface{}{
				"timestamp": now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour),
				"category":  categories[rng.Intn(len(categories))],
			},
		}
	}
	return features
}
