// Package metrics owns the Prometheus collectors of the service: HTTP
// traffic, document ingestion, heuristic analysis failures and queries.
//
// All recording methods are safe on a nil *Metrics, which lets callers run
// without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry plus the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	ingested  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	queries   *prometheus.CounterVec
	results   prometheus.Histogram
	documents prometheus.Gauge
}

// New builds the collectors under namespace. Process and Go runtime
// collectors are added when runtime is true.
func New(namespace string, runtime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if runtime {
		reg.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
			collectors.NewGoCollector(),
		)
	}

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "ingested_total",
			Help:      "Documents ingested by sniffed format and final processing status.",
		}, []string{"format", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "fallbacks_total",
			Help:      "Heuristic analyses that fell back to default insights, by reason.",
		}, []string{"reason"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Queries answered by resolved intent.",
		}, []string{"intent"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "results",
			Help:      "Number of documents returned per query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 30},
		}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "stored",
			Help:      "Documents currently held in the store.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.ingested, m.failures, m.queries, m.results, m.documents)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Middleware records one request sample per handled route. Unmatched
// routes are labelled "unmatched" to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveIngest counts one ingested document.
func (m *Metrics) ObserveIngest(format, status string) {
	if m == nil {
		return
	}
	m.ingested.WithLabelValues(format, status).Inc()
}

// ObserveFallback counts one analysis that produced fallback insights.
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// ObserveQuery counts one answered query and its result size.
func (m *Metrics) ObserveQuery(intent string, results int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(intent).Inc()
	m.results.Observe(float64(results))
}

// SetDocuments records the current store size.
func (m *Metrics) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.documents.Set(float64(n))
}
