package cluster

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresAllLevels(t *testing.T) {
	idx := New[*testItem]()
	levels := idx.Levels()
	require.Len(t, levels, NumLevels)

	for i, g := range levels {
		assert.Equal(t, i, g.Level())
		assert.Same(t, g, idx.Level(i))
		want := CellSizeForLOD(DefaultBaseCellSize, LODForLevel(i))
		assert.Equal(t, Size{Width: want, Height: want}, g.CellSize())
	}
	assert.Nil(t, levels[0].Coarser())
	assert.Nil(t, levels[MaxLevel].Finer())
	assert.Same(t, levels[4], levels[5].Coarser())
	assert.Same(t, levels[6], levels[5].Finer())
	assert.Nil(t, idx.Level(-1))
	assert.Nil(t, idx.Level(NumLevels))
}

func TestClusterProviderSelectsOneLevel(t *testing.T) {
	idx := New[*testItem]()

	for level := MinLevel; level <= MaxLevel; level++ {
		scale := LODForLevel(level).Scale

		g, ok := idx.ClusterProvider(scale)
		require.True(t, ok, "level %d scale", level)
		assert.Equal(t, level, g.Level(), "a boundary scale belongs to the finer level")

		g, ok = idx.ClusterProvider(scale * 1.5)
		require.True(t, ok)
		assert.Equal(t, level, g.Level())

		matches := 0
		for _, candidate := range idx.Levels() {
			if candidate.ScaleInRange(scale * 1.2) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "exactly one level owns scale %v", scale*1.2)
	}

	g, ok := idx.ClusterProvider(Scale0 * 1000)
	require.True(t, ok)
	assert.Equal(t, 0, g.Level())
}

func TestClusterProviderMisses(t *testing.T) {
	idx := New[*testItem]()
	for _, scale := range []float64{
		0, -1, math.NaN(), math.Inf(1), math.Inf(-1),
		LODForLevel(MaxLevel).Scale - 0.001,
	} {
		g, ok := idx.ClusterProvider(scale)
		assert.False(t, ok, "scale %v", scale)
		assert.Nil(t, g)
	}
}

// Every item lands in exactly one cluster per level, and that cluster's cell
// is the cell the item's location buckets to.
func TestIndexPartitionsItemsAtEveryLevel(t *testing.T) {
	items := randomItems(3000, 99)
	idx := New[*testItem]()
	stats := idx.Add(items)
	require.Len(t, stats, NumLevels)

	for _, g := range idx.Levels() {
		assert.Equal(t, len(items), stats[g.Level()].Processed)
		assert.Equal(t, len(items), g.EnsureClustersReadyForDisplay())

		seen := make(map[*testItem]int)
		total := 0
		for _, c := range g.Clusters() {
			total += c.ItemCount()
			for _, item := range c.Items() {
				seen[item]++
				p, ok := Location(item)
				require.True(t, ok)
				assert.Equal(t, g.IndexFor(p), c.Cell())
			}
		}
		assert.Equal(t, len(items), total, "level %d", g.Level())
		assert.Len(t, seen, len(items))
		for item, n := range seen {
			assert.Equal(t, 1, n, "item %d", item.id)
		}
	}
	assert.Equal(t, len(items), idx.ItemCount())
}

func TestIndexCoarserLevelsHaveFewerClusters(t *testing.T) {
	idx := New[*testItem]()
	idx.Add(randomItems(5000, 8))

	prev := 0
	for _, g := range idx.Levels() {
		n := len(g.Clusters())
		assert.GreaterOrEqual(t, n, prev, "level %d", g.Level())
		prev = n
	}
	assert.Equal(t, 1, len(idx.Level(0).Clusters()))
}

func TestIndexParallelIngestMatchesSequential(t *testing.T) {
	items := randomItems(4000, 12)

	seq := New[*testItem]()
	seq.Add(items)
	par := New[*testItem](WithIngestConcurrency(8))
	par.Add(items)

	for level := MinLevel; level <= MaxLevel; level++ {
		assert.Equal(t, seq.Level(level).CellCount(), par.Level(level).CellCount(), "level %d", level)
	}

	keys := make(map[int64]bool)
	for _, g := range par.Levels() {
		for _, c := range g.Clusters() {
			assert.False(t, keys[c.Key()], "duplicate key %d", c.Key())
			keys[c.Key()] = true
		}
	}
}

func TestIndexItemCountIncludesPending(t *testing.T) {
	idx := New[*testItem]()
	items := randomItems(100, 4)
	idx.Add(items)
	assert.Equal(t, 100, idx.ItemCount())

	for _, c := range idx.Level(0).Clusters() {
		assert.Equal(t, 0, c.ItemCount())
	}

	idx.Add(items[:10])
	assert.Equal(t, 100, idx.ItemCount(), "re-adding is idempotent")
}

func TestIndexRemoveAllItems(t *testing.T) {
	idx := New[*testItem]()
	idx.Add(randomItems(300, 6))
	idx.RemoveAllItems()

	assert.Equal(t, 0, idx.ItemCount())
	for _, g := range idx.Levels() {
		assert.Empty(t, g.Clusters())
	}
}

func TestIndexKeySourceIsInjected(t *testing.T) {
	keys := NewKeySource(1000)
	idx := New[*testItem](WithKeySource(keys))
	idx.Add([]*testItem{pt(1, 10, 10)})

	assert.Same(t, keys, idx.Keys())
	assert.Equal(t, int64(1000+NumLevels), keys.Peek())
	assert.GreaterOrEqual(t, idx.Level(3).Clusters()[0].Key(), int64(1000))
}

type recordingMetrics struct {
	mu      sync.Mutex
	ingests int
	flushes int
	hits    int
	misses  int
}

func (m *recordingMetrics) RecordIngest(int, AddStats, time.Duration) {
	m.mu.Lock()
	m.ingests++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordFlush(int, int, int, time.Duration) {
	m.mu.Lock()
	m.flushes++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordLookup(_ float64, level int) {
	m.mu.Lock()
	if level < 0 {
		m.misses++
	} else {
		m.hits++
	}
	m.mu.Unlock()
}

func TestIndexReportsMetrics(t *testing.T) {
	m := &recordingMetrics{}
	idx := New[*testItem](WithMetrics(m), WithIngestConcurrency(4))
	idx.Add(randomItems(50, 1))

	g, ok := idx.ClusterProvider(LODForLevel(9).Scale)
	require.True(t, ok)
	g.EnsureClustersReadyForDisplay()
	idx.ClusterProvider(math.NaN())

	assert.Equal(t, NumLevels, m.ingests)
	assert.Equal(t, 1, m.flushes)
	assert.Equal(t, 1, m.hits)
	assert.Equal(t, 1, m.misses)
}
