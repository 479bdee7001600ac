package cluster

// DefaultBaseCellSize is one twelfth of a foot expressed in metres: the
// on-screen size of a cell, multiplied by a level's scale to get map units.
const DefaultBaseCellSize = 0.0254

type options struct {
	logger         *Logger
	metrics        MetricsCollector
	keys           *KeySource
	baseCellSize   float64
	ingestWorkers  int
	bufferDistance float64
	bufferSegments int
}

// Option configures a ClusterIndex.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:         NoopLogger(),
		metrics:        NoopMetricsCollector{},
		baseCellSize:   DefaultBaseCellSize,
		ingestWorkers:  1,
		bufferDistance: DefaultCoverageBufferDistance,
		bufferSegments: DefaultCoverageBufferSegments,
	}
}

// WithLogger sets the logger. nil disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. nil disables collection.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithKeySource injects the cluster key source, which lets tests start keys
// from a known value.
func WithKeySource(ks *KeySource) Option {
	return func(o *options) {
		o.keys = ks
	}
}

// WithBaseCellSize sets the base cell size. Values <= 0 keep the default.
func WithBaseCellSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.baseCellSize = size
		}
	}
}

// WithIngestConcurrency sets how many levels are bucketed in parallel by Add.
// Levels never share state, so any value up to NumLevels is safe. Values < 1
// mean sequential ingestion.
func WithIngestConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		if n > NumLevels {
			n = NumLevels
		}
		o.ingestWorkers = n
	}
}

// WithCoverageBuffer sets the radius and circle resolution used for the
// coverage of one- and two-item clusters.
func WithCoverageBuffer(distance float64, segments int) Option {
	return func(o *options) {
		if distance > 0 {
			o.bufferDistance = distance
		}
		if segments >= 8 {
			o.bufferSegments = segments
		}
	}
}
