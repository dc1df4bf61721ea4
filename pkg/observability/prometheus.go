package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks records pipeline and cache events as Prometheus metrics
// in its own registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	IngestRuns     *prometheus.CounterVec
	IngestDuration *prometheus.HistogramVec
	Records        prometheus.Counter
	Nodes          prometheus.Counter
	Edges          prometheus.Counter
	Diagnostics    *prometheus.CounterVec

	LayoutRuns     *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks whose metrics are prefixed by namespace.
func NewPrometheusHooks(namespace string) *PrometheusHooks {
	h := &PrometheusHooks{
		registry: prometheus.NewRegistry(),
		IngestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Total number of dataset ingests",
		}, []string{"format", "status"}),
		IngestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Dataset ingest duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total number of entity records read",
		}),
		Nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Total number of nodes produced",
		}),
		Edges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_total",
			Help:      "Total number of edges produced",
		}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_problems_total",
			Help:      "Records skipped, duplicated or pointing at unknown targets",
		}, []string{"kind"}),
		LayoutRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Total number of layout runs",
		}, []string{"engine", "status"}),
		LayoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"engine"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}, []string{"key_type"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}, []string{"key_type"}),
		CacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Total bytes written to the cache",
		}, []string{"key_type"}),
	}
	h.registry.MustRegister(
		h.IngestRuns, h.IngestDuration, h.Records, h.Nodes, h.Edges, h.Diagnostics,
		h.LayoutRuns, h.LayoutDuration,
		h.CacheHits, h.CacheMisses, h.CacheBytes,
	)
	return h
}

// Registry returns the registry holding the metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format,
// ready for the node exporter textfile collector.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func status(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnIngestStart(context.Context, string) {}

func (h *PrometheusHooks) OnIngestComplete(_ context.Context, format string, stats IngestStats, d time.Duration, err error) {
	h.IngestRuns.WithLabelValues(format, status(err != nil)).Inc()
	h.IngestDuration.WithLabelValues(format).Observe(d.Seconds())
	if err != nil {
		return
	}
	h.Records.Add(float64(stats.Records))
	h.Nodes.Add(float64(stats.Nodes))
	h.Edges.Add(float64(stats.Edges))
	h.Diagnostics.WithLabelValues("skipped").Add(float64(stats.Skipped))
	h.Diagnostics.WithLabelValues("duplicate").Add(float64(stats.Duplicates))
	h.Diagnostics.WithLabelValues("dangling").Add(float64(stats.Dangling))
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, failed bool) {
	h.LayoutRuns.WithLabelValues(engine, status(failed)).Inc()
	h.LayoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheHits.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheMisses.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)
