package cluster

import (
	"sync"

	"github.com/paulmach/orb"
)

// GridCell owns the cluster for one grid coordinate. The design allows for
// several clusters per cell but only ever creates one.
type GridCell[T Item] struct {
	Index GridCellIndex
	Size  Size

	cfg      clusterConfig
	mu       sync.Mutex
	clusters []*Cluster[T]

	boundOnce sync.Once
	bound     orb.Bound
}

func newGridCell[T Item](cfg clusterConfig, index GridCellIndex, size Size) *GridCell[T] {
	return &GridCell[T]{Index: index, Size: size, cfg: cfg}
}

// Cluster returns the cell's cluster, creating it on first access. This is
// the only place clusters are created. It is safe to call on a cell returned
// by LevelGrid.CellFor while the level is being written.
func (gc *GridCell[T]) Cluster() *Cluster[T] {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if len(gc.clusters) == 0 {
		gc.clusters = append(gc.clusters, newCluster[T](gc.cfg, gc.Index))
	}
	return gc.clusters[0]
}

// Clusters returns the clusters allocated so far, without creating any.
func (gc *GridCell[T]) Clusters() []*Cluster[T] {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return append([]*Cluster[T](nil), gc.clusters...)
}

// Extent is the projected area covered by the cell.
func (gc *GridCell[T]) Extent() orb.Bound {
	gc.boundOnce.Do(func() {
		gc.bound = cellBound(gc.Index, gc.Size)
	})
	return gc.bound
}

// Center is the middle of the cell's extent.
func (gc *GridCell[T]) Center() orb.Point {
	return gc.Extent().Center()
}

func (gc *GridCell[T]) removeAllClusters() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for _, c := range gc.clusters {
		c.RemoveAllItems()
	}
	gc.clusters = nil
}
