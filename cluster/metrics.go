package cluster

import "time"

// MetricsCollector receives operational measurements from an index.
// Implement it to feed a monitoring system; see package metrics for a
// Prometheus implementation.
type MetricsCollector interface {
	// RecordIngest is called once per level after a batch is bucketed.
	RecordIngest(level int, stats AddStats, duration time.Duration)

	// RecordFlush is called after a level is made ready for display.
	RecordFlush(level, clusters, flushed int, duration time.Duration)

	// RecordLookup is called for every scale lookup. level is -1 on a miss.
	RecordLookup(scale float64, level int)
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, AddStats, time.Duration) {}
func (NoopMetricsCollector) RecordFlush(int, int, int, time.Duration)  {}
func (NoopMetricsCollector) RecordLookup(float64, int)                 {}
