// Package metrics holds the Prometheus collectors for uploads and analyses.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results used as the "result" label.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultBusy     = "busy"
)

// Metrics is a set of collectors registered on its own registry.
type Metrics struct {
	registry         *prometheus.Registry
	uploads          *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	rowsAnalyzed     prometheus.Counter
}

// New creates the collectors and registers them, along with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataaudit",
			Name:      "uploads_total",
			Help:      "Uploads handled, by result.",
		}, []string{"result"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dataaudit",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent loading and analyzing an uploaded file.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		rowsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dataaudit",
			Name:      "rows_analyzed_total",
			Help:      "Table rows covered by completed analyses.",
		}),
	}

	m.registry.MustRegister(
		m.uploads,
		m.analysisDuration,
		m.rowsAnalyzed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// UploadHandled counts one upload with the given result.
func (m *Metrics) UploadHandled(result string) {
	m.uploads.WithLabelValues(result).Inc()
}

// AnalysisCompleted records a finished analysis.
func (m *Metrics) AnalysisCompleted(rows int, elapsed time.Duration) {
	m.analysisDuration.Observe(elapsed.Seconds())
	m.rowsAnalyzed.Add(float64(rows))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
