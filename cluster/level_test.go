package cluster

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLODTable(t *testing.T) {
	lods := WebMercatorLODs(MaxLevel)
	require.Len(t, lods, NumLevels)

	assert.Equal(t, Scale0, lods[0].Scale)
	assert.Equal(t, Resolution0, lods[0].Resolution)
	for i := 1; i < len(lods); i++ {
		assert.InDelta(t, lods[i-1].Scale/2, lods[i].Scale, 1e-6)
		assert.InDelta(t, lods[i-1].Resolution/2, lods[i].Resolution, 1e-9)
	}

	assert.Equal(t, 15028101.0, CellSizeForLOD(DefaultBaseCellSize, LODForLevel(0)))
	assert.Equal(t, 28.0, CellSizeForLOD(DefaultBaseCellSize, LODForLevel(19)))
	assert.Equal(t, 1.0, CellSizeForLOD(1e-12, LODForLevel(19)), "cells never shrink below one unit")
}

func TestGridCellIndexFor(t *testing.T) {
	size := Size{Width: 28, Height: 28}
	tests := []struct {
		p    orb.Point
		want GridCellIndex
	}{
		{orb.Point{0, 0}, GridCellIndex{19, 0, 0}},
		{orb.Point{27.999, 27.999}, GridCellIndex{19, 0, 0}},
		{orb.Point{28, 0}, GridCellIndex{19, 0, 1}},
		{orb.Point{0, 56}, GridCellIndex{19, 2, 0}},
		{orb.Point{-0.5, -0.5}, GridCellIndex{19, -1, -1}},
		{orb.Point{-28, 29}, GridCellIndex{19, 1, -1}},
	}
	for _, tt := range tests {
		got := indexForPoint(19, size, tt.p)
		assert.Equal(t, tt.want, got, "point %v", tt.p)
		assert.True(t, cellBound(got, size).Contains(tt.p))
	}
	assert.Equal(t, "L19[1,-1]", GridCellIndex{19, 1, -1}.String())
}

func TestLevelGridAddBucketsAsPending(t *testing.T) {
	g := NewLevelGrid[*testItem](19, Size{Width: 28, Height: 28})
	stats := g.Add([]*testItem{pt(1, 1, 1), pt(2, 2, 2), pt(3, 100, 100)})

	assert.Equal(t, AddStats{Level: 19, Touched: 2, Processed: 3}, stats)
	assert.Equal(t, 2, g.CellCount())

	clusters := g.Clusters()
	require.Len(t, clusters, 2)
	for _, c := range clusters {
		assert.Equal(t, 0, c.ItemCount(), "nothing visible before flush")
	}
	assert.Equal(t, 2, clusters[0].PendingCount())

	assert.Equal(t, 3, g.EnsureClustersReadyForDisplay())
	assert.Equal(t, 0, g.EnsureClustersReadyForDisplay())
	assert.Equal(t, 2, clusters[0].ItemCount())
	assert.Equal(t, 1, clusters[1].ItemCount())
}

func TestLevelGridSkipsItemsWithoutLocation(t *testing.T) {
	g := NewLevelGrid[*testItem](19, Size{Width: 28, Height: 28})
	stats := g.Add([]*testItem{
		{id: 1},
		{id: 2, geom: orb.Point{math.NaN(), 0}},
		{id: 3, geom: orb.Point{0, math.Inf(1)}},
		{id: 4, geom: orb.LineString{{0, 0}, {1, 1}}},
		pt(5, 3, 3),
	})

	assert.Equal(t, 4, stats.Skipped)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, g.CellCount())
}

func TestLevelGridClustersAreOrderedByKey(t *testing.T) {
	g := NewLevelGrid[*testItem](10, Size{Width: 14675, Height: 14675})
	g.Add(randomItems(2000, 11))

	clusters := g.Clusters()
	require.NotEmpty(t, clusters)
	for i := 1; i < len(clusters); i++ {
		assert.Less(t, clusters[i-1].Key(), clusters[i].Key())
	}
}

func TestLevelGridCellForForcesLevel(t *testing.T) {
	g := NewLevelGrid[*testItem](7, Size{Width: 10, Height: 10})
	cell := g.CellFor(GridCellIndex{Level: 3, Row: 1, Col: 2})

	assert.Equal(t, GridCellIndex{Level: 7, Row: 1, Col: 2}, cell.Index)
	assert.Same(t, cell, g.CellFor(GridCellIndex{Row: 1, Col: 2}))
	assert.Equal(t, "LOD Level 7", g.Name())

	c := g.ClusterFor(orb.Point{25, 15})
	assert.Same(t, cell.Cluster(), c)
}

func TestLevelGridCellClusterDuringAdd(t *testing.T) {
	g := NewLevelGrid[*testItem](7, Size{Width: 10, Height: 10})
	items := make([]*testItem, 200)
	for i := range items {
		items[i] = pt(i, float64(i%10), float64(i%7))
	}

	seen := make([]*Cluster[*testItem], 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < len(items); i += 20 {
			g.Add(items[i : i+20])
		}
	}()
	for r := range seen {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[r] = g.CellFor(GridCellIndex{}).Cluster()
		}()
	}
	wg.Wait()

	cell := g.CellFor(GridCellIndex{})
	require.Len(t, cell.Clusters(), 1)
	for _, c := range seen {
		assert.Same(t, cell.Cluster(), c)
	}
	assert.Equal(t, len(items), g.EnsureClustersReadyForDisplay())
	assert.Equal(t, len(items), cell.Cluster().ItemCount())
}

func TestLevelGridRemoveAllItems(t *testing.T) {
	g := NewLevelGrid[*testItem](12, Size{Width: 3668, Height: 3668})
	g.Add(randomItems(500, 5))
	g.EnsureClustersReadyForDisplay()
	old := g.Clusters()
	require.NotEmpty(t, old)

	g.RemoveAllItems()

	assert.Equal(t, 0, g.CellCount())
	assert.Empty(t, g.Clusters())
	assert.Equal(t, 0, old[0].ItemCount())
}

func TestLevelGridStandaloneScaleRange(t *testing.T) {
	g := NewLevelGrid[*testItem](5, Size{Width: 1, Height: 1})

	assert.True(t, g.ScaleInRange(g.Scale()))
	assert.True(t, g.ScaleInRange(1e15), "no coarser neighbour, no upper bound")
	assert.False(t, g.ScaleInRange(g.Scale()-1))
	assert.False(t, g.ScaleInRange(math.NaN()))
	assert.False(t, g.ScaleInRange(math.Inf(1)))
	assert.False(t, g.ScaleInRange(0))
}

func TestLevelGridConcurrentReadersDuringAdd(t *testing.T) {
	g := NewLevelGrid[*testItem](14, Size{Width: 917, Height: 917})
	items := randomItems(4000, 21)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < len(items); i += 500 {
			g.Add(items[i : i+500])
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = g.Clusters()
				_ = g.CellCount()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(items), g.EnsureClustersReadyForDisplay())
}

func TestLevelGridLogsBuckets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g := NewLevelGrid[*testItem](19, Size{Width: 28, Height: 28}, WithLogger(logger))

	g.Add([]*testItem{pt(1, 1, 1), {id: 2}})
	g.EnsureClustersReadyForDisplay()

	out := buf.String()
	assert.Contains(t, out, `"msg":"items bucketed"`)
	assert.Contains(t, out, `"skipped":1`)
	assert.Contains(t, out, `"lod_level":19`)
	assert.Contains(t, out, `"msg":"clusters flushed"`)
}
