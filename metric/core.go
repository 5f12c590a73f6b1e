package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every tracker metric.
const namespace = "reltrack"

// Metrics contains all core tracker metrics
type Metrics struct {
	// Command metrics
	CommandsProcessed *prometheus.CounterVec
	LinesConsumed     prometheus.Counter

	// Store state metrics
	EntitiesLive      prometheus.Gauge
	RelationsLive     prometheus.Gauge
	RelationTypesLive prometheus.Gauge

	// Index maintenance metrics
	IndexRecomputes prometheus.Counter

	// Report metrics
	ReportsEmitted prometheus.Counter
	ReportDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all core tracker metrics
func NewMetrics() *Metrics {
	return &Metrics{
		CommandsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "processed_total",
				Help:      "Total number of commands processed",
			},
			[]string{"verb", "outcome"},
		),

		LinesConsumed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "input",
				Name:      "lines_total",
				Help:      "Total number of input lines consumed, well-formed or not",
			},
		),

		EntitiesLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "entities",
				Help:      "Number of live entities",
			},
		),

		RelationsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "relations",
				Help:      "Number of live relation triples",
			},
		),

		RelationTypesLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "relation_types",
				Help:      "Number of relation types with at least one relation",
			},
		),

		IndexRecomputes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "index",
				Name:      "recomputes_total",
				Help:      "Total number of full per-type index rebuilds",
			},
		),

		ReportsEmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "report",
				Name:      "emitted_total",
				Help:      "Total number of report lines emitted",
			},
		),

		ReportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "report",
				Name:      "duration_seconds",
				Help:      "Report traversal and emission duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}
