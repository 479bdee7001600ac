// Package cluster buckets point items into one sparse grid per zoom level and
// keeps a lazily computed aggregate for every occupied cell.
//
// Items are ingested once into all twenty levels. Each level holds items as
// pending until the level is flushed for display, so the cost of the derived
// geometry (centroid, coverage, extent) is paid once per redraw of a changed
// cluster rather than once per inserted item.
package cluster

import (
	"sort"
	"sync"

	"github.com/paulmach/orb"
)

// Cluster aggregates the items that fall into one grid cell.
//
// ItemCount and the geometry getters only ever see merged items. Items added
// with AddPending stay invisible until FlushPendingItemsIntoCluster.
type Cluster[T Item] struct {
	key  int64
	cell GridCellIndex

	mu      sync.Mutex
	items   map[T]struct{}
	pending map[T]struct{}

	// generation is bumped on every mutation; each cached geometry remembers
	// the generation it was computed for.
	generation uint64
	centroid   cachedGeometry[orb.Point]
	coverage   cachedGeometry[orb.Polygon]
	extent     cachedGeometry[orb.Bound]

	bufferDistance float64
	bufferSegments int
}

type cachedGeometry[G any] struct {
	value      G
	ok         bool
	generation uint64
	valid      bool
}

func (c *cachedGeometry[G]) fresh(generation uint64) bool {
	return c.valid && c.generation == generation
}

func (c *cachedGeometry[G]) store(value G, ok bool, generation uint64) {
	c.value, c.ok, c.generation, c.valid = value, ok, generation, true
}

// NewCluster creates an empty cluster with the next key from keys.
func NewCluster[T Item](keys *KeySource, cell GridCellIndex) *Cluster[T] {
	return newCluster[T](clusterConfig{
		keys:           keys,
		bufferDistance: DefaultCoverageBufferDistance,
		bufferSegments: DefaultCoverageBufferSegments,
	}, cell)
}

// clusterConfig is what a level hands down to the clusters it creates.
type clusterConfig struct {
	keys           *KeySource
	bufferDistance float64
	bufferSegments int
}

func newCluster[T Item](cfg clusterConfig, cell GridCellIndex) *Cluster[T] {
	return &Cluster[T]{
		key:            cfg.keys.Next(),
		cell:           cell,
		items:          make(map[T]struct{}),
		pending:        make(map[T]struct{}),
		bufferDistance: cfg.bufferDistance,
		bufferSegments: cfg.bufferSegments,
	}
}

// Key is the cluster's process-unique correlation id.
func (c *Cluster[T]) Key() int64 { return c.key }

// Cell is the index of the cell that owns this cluster.
func (c *Cluster[T]) Cell() GridCellIndex { return c.cell }

// Equal reports whether both clusters carry the same key.
func (c *Cluster[T]) Equal(other *Cluster[T]) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.key == other.key
}

// ItemCount is the number of merged items.
func (c *Cluster[T]) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// PendingCount is the number of items waiting to be flushed.
func (c *Cluster[T]) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// heldCount counts merged and pending items once each.
func (c *Cluster[T]) heldCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	for item := range c.pending {
		if _, ok := c.items[item]; !ok {
			n++
		}
	}
	return n
}

// Items returns a snapshot of the merged items in no particular order.
func (c *Cluster[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.items))
	for item := range c.items {
		out = append(out, item)
	}
	return out
}

// Contains reports whether item has been merged into the cluster.
func (c *Cluster[T]) Contains(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[item]
	return ok
}

// Add merges an item immediately. Re-adding an item is a no-op apart from
// invalidating cached geometry.
func (c *Cluster[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item] = struct{}{}
	c.invalidate()
}

// Remove drops a merged item.
func (c *Cluster[T]) Remove(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, item)
	c.invalidate()
}

// AddPending stages an item for the next flush. Cached geometry is left
// alone because nothing visible has changed yet.
func (c *Cluster[T]) AddPending(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[item] = struct{}{}
}

// FlushPendingItemsIntoCluster merges every pending item and returns how many
// were staged. With nothing pending it returns 0 and keeps the caches.
func (c *Cluster[T]) FlushPendingItemsIntoCluster() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.pending)
	if n == 0 {
		return 0
	}
	for item := range c.pending {
		c.items[item] = struct{}{}
	}
	c.pending = make(map[T]struct{})
	c.invalidate()
	return n
}

// RemoveAllItems clears merged and pending items.
func (c *Cluster[T]) RemoveAllItems() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[T]struct{})
	c.pending = make(map[T]struct{})
	c.invalidate()
}

func (c *Cluster[T]) invalidate() {
	c.generation++
}

// Centroid is the mean location of the merged items. It reports false for an
// empty cluster, which should never be on display.
func (c *Cluster[T]) Centroid() (orb.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.centroid.fresh(c.generation) {
		p, ok := meanPoint(c.pointsLocked())
		c.centroid.store(p, ok, c.generation)
	}
	return c.centroid.value, c.centroid.ok
}

// Coverage is a polygon enclosing the merged items.
func (c *Cluster[T]) Coverage() (orb.Polygon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.coverage.fresh(c.generation) {
		poly, ok := coveragePolygon(c.pointsLocked(), c.bufferDistance, c.bufferSegments)
		c.coverage.store(poly, ok, c.generation)
	}
	return c.coverage.value, c.coverage.ok
}

// Extent is the bounding box of all merged item geometries.
func (c *Cluster[T]) Extent() (orb.Bound, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.extent.fresh(c.generation) {
		geoms := make([]orb.Geometry, 0, len(c.items))
		for item := range c.items {
			geoms = append(geoms, item.Geometry())
		}
		b, ok := unionBound(geoms)
		c.extent.store(b, ok, c.generation)
	}
	return c.extent.value, c.extent.ok
}

// pointsLocked collects one point per merged item in a stable order, so
// floating point sums do not depend on map iteration.
func (c *Cluster[T]) pointsLocked() []orb.Point {
	points := make([]orb.Point, 0, len(c.items))
	for item := range c.items {
		if p, ok := representativePoint(item); ok {
			points = append(points, p)
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i][0] != points[j][0] {
			return points[i][0] < points[j][0]
		}
		return points[i][1] < points[j][1]
	})
	return points
}
