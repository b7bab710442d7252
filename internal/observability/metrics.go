package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coverage"

// Metrics holds the Prometheus counters, histograms, and gauges for the coverage service.
type Metrics struct {
	// Coverage builds.
	CoverageBuilds        *prometheus.CounterVec // labels: module
	CoverageCache         *prometheus.CounterVec // labels: result={hit,miss}
	CoverageBuildDuration prometheus.Histogram

	// Sessions and highlight transitions.
	Transitions     *prometheus.CounterVec // labels: action={module,hover,select,clear}
	SessionsActive  prometheus.Gauge
	SessionsExpired prometheus.Counter

	// Selection event publishing.
	EventsPublished  prometheus.Counter
	EventsDropped    prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherRunning prometheus.Gauge
	BatchSize        prometheus.Histogram

	// Dataset loading.
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset={pricebook,boundaries}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CoverageBuilds,
		m.CoverageCache,
		m.CoverageBuildDuration,
		m.Transitions,
		m.SessionsActive,
		m.SessionsExpired,
		m.EventsPublished,
		m.EventsDropped,
		m.PublishErrors,
		m.PublisherRunning,
		m.BatchSize,
		m.DatasetLoadDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CoverageBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Group, index and boundary builds by module.",
		}, []string{"module"}),
		CoverageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Coverage build cache lookups by result.",
		}, []string{"result"}),
		CoverageBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a coverage build for one module.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Highlight state transitions by action.",
		}, []string{"action"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live highlight sessions.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Sessions removed after being idle longer than the TTL.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_published_total",
			Help:      "Selection events written to the sink.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_dropped_total",
			Help:      "Selection events dropped because the publish buffer was full.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed selection event batch writes.",
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the selection event publisher is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of selection events per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading a dataset at startup.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),
	}
}
