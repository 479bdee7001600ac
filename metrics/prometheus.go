// Package metrics exports index measurements to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"
	"web/lodcluster/cluster"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lodcluster"

// Prometheus implements cluster.MetricsCollector. Each instance owns its
// registry so several can live in one process, as they do in tests.
type Prometheus struct {
	registry *prometheus.Registry

	ingestLatency *prometheus.HistogramVec
	itemsIngested *prometheus.CounterVec
	itemsSkipped  *prometheus.CounterVec
	flushLatency  *prometheus.HistogramVec
	itemsFlushed  *prometheus.CounterVec
	clusters      *prometheus.GaugeVec
	lookups       *prometheus.CounterVec
	datasets      prometheus.Gauge
	requests      *prometheus.CounterVec
}

var _ cluster.MetricsCollector = (*Prometheus)(nil)

// NewPrometheus registers the index metrics, plus the Go runtime and process
// collectors, on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		ingestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_latency_seconds",
			Help:      "Time to bucket one batch into one level",
			Buckets:   prometheus.DefBuckets,
		}, []string{"level"}),
		itemsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_ingested_total",
			Help:      "Items bucketed per level",
		}, []string{"level"}),
		itemsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_skipped_total",
			Help:      "Items without a usable location per level",
		}, []string{"level"}),
		flushLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flush_latency_seconds",
			Help:      "Time to make a level ready for display",
			Buckets:   prometheus.DefBuckets,
		}, []string{"level"}),
		itemsFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_flushed_total",
			Help:      "Pending items merged into clusters per level",
		}, []string{"level"}),
		clusters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clusters",
			Help:      "Clusters allocated per level at the last flush",
		}, []string{"level"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scale_lookups_total",
			Help:      "Scale to level lookups",
		}, []string{"result"}),
		datasets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "datasets_loaded",
			Help:      "Datasets held in memory by the runner",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests served, by method and status code",
		}, []string{"method", "code"}),
	}

	p.registry.MustRegister(
		p.ingestLatency,
		p.itemsIngested,
		p.itemsSkipped,
		p.flushLatency,
		p.itemsFlushed,
		p.clusters,
		p.lookups,
		p.datasets,
		p.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) RecordIngest(level int, stats cluster.AddStats, duration time.Duration) {
	l := strconv.Itoa(level)
	p.ingestLatency.WithLabelValues(l).Observe(duration.Seconds())
	p.itemsIngested.WithLabelValues(l).Add(float64(stats.Processed))
	p.itemsSkipped.WithLabelValues(l).Add(float64(stats.Skipped))
}

func (p *Prometheus) RecordFlush(level, clusters, flushed int, duration time.Duration) {
	l := strconv.Itoa(level)
	p.flushLatency.WithLabelValues(l).Observe(duration.Seconds())
	p.itemsFlushed.WithLabelValues(l).Add(float64(flushed))
	p.clusters.WithLabelValues(l).Set(float64(clusters))
}

func (p *Prometheus) RecordLookup(_ float64, level int) {
	result := "hit"
	if level < 0 {
		result = "miss"
	}
	p.lookups.WithLabelValues(result).Inc()
}

// SetDatasetsLoaded reports how many datasets the runner holds.
func (p *Prometheus) SetDatasetsLoaded(n int) {
	p.datasets.Set(float64(n))
}

// RecordRequest counts one served request.
func (p *Prometheus) RecordRequest(method, code string) {
	p.requests.WithLabelValues(method, code).Inc()
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
