package display

import (
	"errors"
	"fmt"
	"sync"
	"web/lodcluster/cluster"
)

// Provider selects the level to draw at a map scale. *cluster.ClusterIndex
// implements it.
type Provider[T cluster.Item] interface {
	ClusterProvider(scale float64) (*cluster.LevelGrid[T], bool)
}

// Sink receives the records of a component, replacing whatever it showed
// for that component before.
type Sink interface {
	Replace(component Component, records []Record) error
}

// Layer keeps a sink showing the level that matches the current map scale.
// Callers debounce scale changes themselves.
type Layer[T cluster.Item] struct {
	// MinScale is the most zoomed-out scale the layer draws at and MaxScale
	// the most zoomed-in. Zero leaves that end unbounded.
	MinScale float64
	MaxScale float64

	adapter  *Adapter[T]
	provider Provider[T]
	sink     Sink
	logger   *cluster.Logger

	mu      sync.Mutex
	current *cluster.LevelGrid[T]
}

// NewLayer creates a layer with nothing displayed yet.
func NewLayer[T cluster.Item](provider Provider[T], sink Sink, adapter *Adapter[T], logger *cluster.Logger) *Layer[T] {
	if logger == nil {
		logger = cluster.NoopLogger()
	}
	if adapter == nil {
		adapter = NewAdapter[T](logger)
	}
	return &Layer[T]{
		adapter:  adapter,
		provider: provider,
		sink:     sink,
		logger:   logger,
	}
}

// Current is the level on display, or nil.
func (l *Layer[T]) Current() *cluster.LevelGrid[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Visible reports whether scale is within the layer's visible range.
func (l *Layer[T]) Visible(scale float64) bool {
	if l.MinScale > 0 && scale > l.MinScale {
		return false
	}
	if l.MaxScale > 0 && scale < l.MaxScale {
		return false
	}
	return true
}

// UpdateForScale redraws the layer if scale selects a different level than
// the one on display. It reports whether a redraw happened.
func (l *Layer[T]) UpdateForScale(scale float64) (bool, error) {
	if !l.Visible(scale) {
		l.logger.Debug("map scale out of visible range",
			"scale", scale, "min_scale", l.MinScale, "max_scale", l.MaxScale)
		return false, nil
	}

	grid, ok := l.provider.ClusterProvider(scale)
	if !ok {
		l.logger.Debug("no level for map scale", "scale", scale)
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if grid == l.current {
		l.logger.Debug("level unchanged after navigation", "scale", scale, "provider", grid.Name())
		return false, nil
	}
	l.current = grid
	return true, l.redrawLocked(Components...)
}

// Refresh redraws every component of the current level, picking up items
// added since the last draw.
func (l *Layer[T]) Refresh() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	return l.redrawLocked(Components...)
}

// SetShowCoverages toggles coverages and redraws only that component.
func (l *Layer[T]) SetShowCoverages(show bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adapter.ShowCoverages = show
	if l.current == nil {
		return nil
	}
	return l.redrawLocked(Coverages)
}

func (l *Layer[T]) redrawLocked(components ...Component) error {
	l.current.EnsureClustersReadyForDisplay()
	clusters := l.current.Clusters()

	var errs []error
	for _, component := range components {
		records := l.adapter.Records(clusters, component)
		if err := l.sink.Replace(component, records); err != nil {
			errs = append(errs, fmt.Errorf("replace %s: %w", component, err))
			continue
		}
		l.logger.Debug("component redrawn",
			"component", component.String(),
			"records", len(records),
			"provider", l.current.Name(),
		)
	}
	return errors.Join(errs...)
}

// MemorySink keeps the last records given for each component.
type MemorySink struct {
	mu       sync.Mutex
	records  map[Component][]Record
	replaced int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{records: make(map[Component][]Record)}
}

// Replace implements Sink.
func (s *MemorySink) Replace(component Component, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[component] = append([]Record(nil), records...)
	s.replaced++
	return nil
}

// Records returns what is currently shown for component.
func (s *MemorySink) Records(component Component) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records[component]...)
}

// Replacements counts calls to Replace.
func (s *MemorySink) Replacements() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaced
}
