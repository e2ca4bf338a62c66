package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pentagrid"

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors. One value serves as pipeline, cache and HTTP hooks.
type PrometheusHooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	tilesTotal    *prometheus.HistogramVec
	artifactBytes *prometheus.HistogramVec
	cacheOps      *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInflight  prometheus.Gauge
}

// NewPrometheusHooks creates hooks and registers their collectors with reg.
// It panics if the collectors are already registered.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Buckets:   prometheus.DefBuckets,
			Help:      "Duration of pipeline stages.",
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Pipeline stage error count.",
		}, []string{"stage"}),
		tilesTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "tiles",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
			Help:      "Number of visible tiles per enumeration.",
		}, []string{"families"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "artifact_bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
			Help:      "Size of rendered artifacts.",
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   prometheus.DefBuckets,
			Help:      "Duration of served requests.",
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Number of requests being served.",
		}),
	}
	reg.MustRegister(
		h.stageDuration,
		h.stageErrors,
		h.tilesTotal,
		h.artifactBytes,
		h.cacheOps,
		h.cacheBytes,
		h.httpRequests,
		h.httpDuration,
		h.httpInflight,
	)
	return h
}

func (h *PrometheusHooks) finish(stage string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (h *PrometheusHooks) OnGenerateStart(context.Context, uint64, int) {}

func (h *PrometheusHooks) OnGenerateComplete(_ context.Context, _ uint64, _ int, d time.Duration, err error) {
	h.finish("generate", d, err)
}

func (h *PrometheusHooks) OnEnumerateStart(context.Context, int) {}

func (h *PrometheusHooks) OnEnumerateComplete(_ context.Context, families, tiles int, d time.Duration, err error) {
	h.finish("enumerate", d, err)
	if err == nil {
		h.tilesTotal.WithLabelValues(strconv.Itoa(families)).Observe(float64(tiles))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.finish("render", d, err)
	if err == nil {
		h.artifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.httpInflight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpInflight.Dec()
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.httpInflight.Dec()
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(http.StatusInternalServerError)).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
