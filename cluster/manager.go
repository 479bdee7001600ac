package cluster

import (
	"golang.org/x/sync/errgroup"
)

// ClusterIndex owns one LevelGrid per zoom level from MinLevel to MaxLevel.
// Levels are wired to their neighbours once, at construction.
type ClusterIndex[T Item] struct {
	levels  [NumLevels]*LevelGrid[T]
	keys    *KeySource
	logger  *Logger
	metrics MetricsCollector
	workers int
}

// New builds an index with every level ready to receive items.
func New[T Item](opts ...Option) *ClusterIndex[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.keys == nil {
		o.keys = NewKeySource(0)
	}

	idx := &ClusterIndex[T]{
		keys:    o.keys,
		logger:  o.logger,
		metrics: o.metrics,
		workers: o.ingestWorkers,
	}

	var previous *LevelGrid[T]
	for level := MinLevel; level <= MaxLevel; level++ {
		edge := CellSizeForLOD(o.baseCellSize, LODForLevel(level))
		grid := newLevelGrid[T](level, Size{Width: edge, Height: edge}, o)

		grid.coarser = previous
		if previous != nil {
			previous.finer = grid
		}
		previous = grid
		idx.levels[level-MinLevel] = grid
	}

	idx.logger.Debug("cluster index built",
		"levels", NumLevels,
		"finest_cell_size", idx.levels[NumLevels-1].cellSize.Width,
		"coarsest_cell_size", idx.levels[0].cellSize.Width,
	)
	return idx
}

// Keys is the key source shared by all levels.
func (idx *ClusterIndex[T]) Keys() *KeySource { return idx.keys }

// Level returns the grid for a level number, or nil if out of range.
func (idx *ClusterIndex[T]) Level(level int) *LevelGrid[T] {
	if level < MinLevel || level > MaxLevel {
		return nil
	}
	return idx.levels[level-MinLevel]
}

// Levels returns all grids, coarsest first.
func (idx *ClusterIndex[T]) Levels() []*LevelGrid[T] {
	out := make([]*LevelGrid[T], NumLevels)
	copy(out, idx.levels[:])
	return out
}

// Add ingests the same items into every level. Each item is bucketed
// independently at each resolution. The returned stats are indexed by level.
func (idx *ClusterIndex[T]) Add(items []T) []AddStats {
	stats := make([]AddStats, NumLevels)

	if idx.workers <= 1 {
		for i, grid := range idx.levels {
			stats[i] = grid.Add(items)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(idx.workers)
		for i, grid := range idx.levels {
			i, grid := i, grid
			g.Go(func() error {
				stats[i] = grid.Add(items)
				return nil
			})
		}
		// Add never fails; Wait only joins the workers.
		_ = g.Wait()
	}

	idx.logger.Info("items added to cluster index",
		"items", len(items),
		"processed", stats[0].Processed,
		"skipped", stats[0].Skipped,
	)
	return stats
}

// ClusterProvider returns the level to display at scale. It reports false
// when no level owns the scale, which includes NaN, infinities, zero and
// negative scales, and scales finer than the last level.
func (idx *ClusterIndex[T]) ClusterProvider(scale float64) (*LevelGrid[T], bool) {
	for _, grid := range idx.levels {
		if grid.ScaleInRange(scale) {
			idx.metrics.RecordLookup(scale, grid.Level())
			return grid, true
		}
	}
	idx.metrics.RecordLookup(scale, -1)
	return nil, false
}

// RemoveAllItems clears every level.
func (idx *ClusterIndex[T]) RemoveAllItems() {
	for _, grid := range idx.levels {
		grid.RemoveAllItems()
	}
	idx.logger.Info("all items removed from cluster index")
}

// ItemCount is the number of distinct items held by the index, merged or
// still pending. Every level holds the same items, so level 0 is counted.
func (idx *ClusterIndex[T]) ItemCount() int {
	n := 0
	for _, c := range idx.levels[0].Clusters() {
		n += c.heldCount()
	}
	return n
}
