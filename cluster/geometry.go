package cluster

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

const (
	// DefaultCoverageBufferDistance is the radius, in map units, of the shape
	// drawn around clusters of one or two items.
	DefaultCoverageBufferDistance = 20.0

	// DefaultCoverageBufferSegments is the number of vertices used to
	// approximate a full circle when buffering.
	DefaultCoverageBufferSegments = 32
)

// meanPoint averages points. A single point is returned untouched so that a
// one-item cluster sits exactly on its item.
func meanPoint(points []orb.Point) (orb.Point, bool) {
	switch len(points) {
	case 0:
		return orb.Point{}, false
	case 1:
		return points[0], true
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p[0]
		sumY += p[1]
	}
	inv := 1.0 / float64(len(points))
	return orb.Point{sumX * inv, sumY * inv}, true
}

// coveragePolygon builds the footprint of a set of points: a disk for one
// distinct point, a capsule for two, the convex hull otherwise. Hulls that
// collapse to a segment fall back to the capsule.
func coveragePolygon(points []orb.Point, distance float64, segments int) (orb.Polygon, bool) {
	distinct := uniquePoints(points)
	switch len(distinct) {
	case 0:
		return nil, false
	case 1:
		return bufferPoint(distinct[0], distance, segments), true
	case 2:
		return bufferSegment(distinct[0], distinct[1], distance, segments), true
	}

	hull := convexHull(distinct)
	if len(hull) < 4 {
		// collinear input: hull is just the two extreme points
		return bufferSegment(distinct[0], distinct[len(distinct)-1], distance, segments), true
	}
	return orb.Polygon{hull}, true
}

// uniquePoints returns the distinct points sorted by x then y.
func uniquePoints(points []orb.Point) []orb.Point {
	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	out := sorted[:0]
	for i, p := range sorted {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull runs Andrew's monotone chain over sorted distinct points and
// returns a closed counter-clockwise ring. Collinear vertices are dropped.
func convexHull(sorted []orb.Point) orb.Ring {
	n := len(sorted)
	hull := make([]orb.Point, 0, 2*n)

	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// the last point repeats the first, which closes the ring
	return orb.Ring(hull)
}

func bufferPoint(center orb.Point, distance float64, segments int) orb.Polygon {
	if segments < 8 {
		segments = 8
	}
	ring := make(orb.Ring, 0, segments+1)
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		a := float64(i) * step
		ring = append(ring, orb.Point{
			center[0] + distance*math.Cos(a),
			center[1] + distance*math.Sin(a),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// bufferSegment returns the capsule around segment ab: two half circles
// joined by the parallel offsets of the segment.
func bufferSegment(a, b orb.Point, distance float64, segments int) orb.Polygon {
	if segments < 8 {
		segments = 8
	}
	half := segments / 2
	theta := math.Atan2(b[1]-a[1], b[0]-a[0])
	step := math.Pi / float64(half)

	ring := make(orb.Ring, 0, 2*(half+1)+1)
	arc := func(c orb.Point, start float64) {
		for i := 0; i <= half; i++ {
			ang := start + float64(i)*step
			ring = append(ring, orb.Point{
				c[0] + distance*math.Cos(ang),
				c[1] + distance*math.Sin(ang),
			})
		}
	}
	arc(b, theta-math.Pi/2)
	arc(a, theta+math.Pi/2)
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// unionBound merges the bounds of every geometry, skipping nil geometries.
func unionBound(geoms []orb.Geometry) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	for _, g := range geoms {
		if g == nil {
			continue
		}
		if !found {
			bound = g.Bound()
			found = true
			continue
		}
		bound = bound.Union(g.Bound())
	}
	return bound, found
}
