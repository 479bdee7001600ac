package cluster

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// AddStats reports what one level did with a batch of items.
type AddStats struct {
	Level     int
	Touched   int // distinct clusters that received at least one item
	Processed int
	Skipped   int // items without a usable point location
}

// LevelGrid is the sparse grid for one zoom level.
//
// One goroutine may mutate a level at a time; readers may run concurrently
// with each other. The level's lock enforces this.
type LevelGrid[T Item] struct {
	lod      LevelOfDetail
	cellSize Size

	cfg     clusterConfig
	logger  *Logger
	metrics MetricsCollector

	mu   sync.RWMutex
	rows map[int]map[int]*GridCell[T]

	// coarser has the next lower level number (larger scale), finer the next
	// higher one. Set once when the index is built.
	coarser *LevelGrid[T]
	finer   *LevelGrid[T]
}

// NewLevelGrid creates a standalone level. Levels built this way have no
// neighbours, so they accept every scale at or above their own.
func NewLevelGrid[T Item](level int, cellSize Size, opts ...Option) *LevelGrid[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.keys == nil {
		o.keys = NewKeySource(0)
	}
	return newLevelGrid[T](level, cellSize, o)
}

func newLevelGrid[T Item](level int, cellSize Size, o options) *LevelGrid[T] {
	return &LevelGrid[T]{
		lod:      LODForLevel(level),
		cellSize: cellSize,
		cfg: clusterConfig{
			keys:           o.keys,
			bufferDistance: o.bufferDistance,
			bufferSegments: o.bufferSegments,
		},
		logger:  o.logger.WithLevel(level),
		metrics: o.metrics,
		rows:    make(map[int]map[int]*GridCell[T]),
	}
}

// Name is a human readable label for the level.
func (g *LevelGrid[T]) Name() string { return fmt.Sprintf("LOD Level %d", g.lod.Level) }

// Level is the zoom level number.
func (g *LevelGrid[T]) Level() int { return g.lod.Level }

// Scale is the map scale at which this level starts to apply.
func (g *LevelGrid[T]) Scale() float64 { return g.lod.Scale }

// Resolution is the map units per pixel at this level.
func (g *LevelGrid[T]) Resolution() float64 { return g.lod.Resolution }

// CellSize is the size of every cell in this level.
func (g *LevelGrid[T]) CellSize() Size { return g.cellSize }

// Coarser is the neighbouring level with less detail, or nil.
func (g *LevelGrid[T]) Coarser() *LevelGrid[T] { return g.coarser }

// Finer is the neighbouring level with more detail, or nil.
func (g *LevelGrid[T]) Finer() *LevelGrid[T] { return g.finer }

// IndexFor returns the cell index a projected point falls into.
func (g *LevelGrid[T]) IndexFor(p orb.Point) GridCellIndex {
	return indexForPoint(g.lod.Level, g.cellSize, p)
}

// Add buckets items into this level as pending items. Items without a
// usable point location are counted and skipped.
func (g *LevelGrid[T]) Add(items []T) AddStats {
	start := time.Now()
	stats := AddStats{Level: g.lod.Level}
	touched := make(map[*Cluster[T]]struct{})

	g.mu.Lock()
	for _, item := range items {
		p, ok := Location(item)
		if !ok {
			stats.Skipped++
			continue
		}
		c := g.cellForLocked(g.IndexFor(p)).Cluster()
		c.AddPending(item)
		touched[c] = struct{}{}
		stats.Processed++
	}
	g.mu.Unlock()

	stats.Touched = len(touched)
	g.logger.LogAdd(stats, g.cellSize)
	g.metrics.RecordIngest(g.lod.Level, stats, time.Since(start))
	return stats
}

// CellFor returns the cell at index, creating it if needed. The index level
// is forced to this grid's level.
func (g *LevelGrid[T]) CellFor(index GridCellIndex) *GridCell[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cellForLocked(index)
}

func (g *LevelGrid[T]) cellForLocked(index GridCellIndex) *GridCell[T] {
	index.Level = g.lod.Level

	row, ok := g.rows[index.Row]
	if !ok {
		row = make(map[int]*GridCell[T])
		g.rows[index.Row] = row
	}
	cell, ok := row[index.Col]
	if !ok {
		cell = newGridCell[T](g.cfg, index, g.cellSize)
		row[index.Col] = cell
	}
	return cell
}

// ClusterFor returns the cluster for the cell containing p, creating the
// cell and cluster if needed.
func (g *LevelGrid[T]) ClusterFor(p orb.Point) *Cluster[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cellForLocked(g.IndexFor(p)).Cluster()
}

// Clusters returns every cluster allocated in this level, ordered by key.
func (g *LevelGrid[T]) Clusters() []*Cluster[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.clustersLocked()
}

func (g *LevelGrid[T]) clustersLocked() []*Cluster[T] {
	var out []*Cluster[T]
	for _, row := range g.rows {
		for _, cell := range row {
			out = append(out, cell.Clusters()...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// CellCount is the number of allocated cells.
func (g *LevelGrid[T]) CellCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// RemoveAllItems drops every cell, and with them every cluster.
func (g *LevelGrid[T]) RemoveAllItems() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, row := range g.rows {
		for _, cell := range row {
			cell.removeAllClusters()
		}
	}
	g.rows = make(map[int]map[int]*GridCell[T])
}

// ScaleInRange reports whether this level is the one to display at scale.
// A level owns [its scale, coarser level's scale); a scale equal to a
// boundary belongs to the finer level. NaN and infinities match nothing.
func (g *LevelGrid[T]) ScaleInRange(scale float64) bool {
	if !finite(scale) {
		return false
	}
	if scale < g.lod.Scale {
		return false
	}
	if g.coarser != nil && scale >= g.coarser.lod.Scale {
		return false
	}
	return true
}

// EnsureClustersReadyForDisplay flushes the pending items of every cluster
// and returns how many items were merged. Call it before reading cluster
// geometry for display.
func (g *LevelGrid[T]) EnsureClustersReadyForDisplay() int {
	start := time.Now()

	g.mu.Lock()
	clusters := g.clustersLocked()
	flushed := 0
	for _, c := range clusters {
		flushed += c.FlushPendingItemsIntoCluster()
	}
	g.mu.Unlock()

	g.logger.LogFlush(len(clusters), flushed)
	g.metrics.RecordFlush(g.lod.Level, len(clusters), flushed, time.Since(start))
	return flushed
}
