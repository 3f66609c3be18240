package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// catalog service.
type Metrics struct {
	CatalogRecords prometheus.Gauge
	LookupRequests *prometheus.CounterVec // labels: lookup={abbrev,code,all}, outcome={hit,miss}
	RateLimited    prometheus.Counter

	// Annotation pipeline metrics.
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	AnnotateErrors   prometheus.Counter
	UnknownFields    prometheus.Counter
	PipelineRunning  prometheus.Gauge

	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CatalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "grib_catalog",
			Name:      "records",
			Help:      "Number of parameter records in the loaded table.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "lookup_requests_total",
			Help:      "Catalog lookups by key type and outcome.",
		}, []string{"lookup", "outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "rate_limited_requests_total",
			Help:      "Lookup requests rejected by the rate limiter.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "messages_consumed_total",
			Help:      "Total inventory messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "messages_produced_total",
			Help:      "Total annotated fields written to the sink topic.",
		}),
		AnnotateErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "annotate_errors_total",
			Help:      "Total annotation failures, unknown fields included.",
		}),
		UnknownFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_catalog",
			Name:      "unknown_fields_total",
			Help:      "Inventory variables with no catalog entry.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "grib_catalog",
			Name:      "pipeline_running",
			Help:      "1 when the annotation pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grib_catalog",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grib_catalog",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-annotate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.CatalogRecords,
		m.LookupRequests,
		m.RateLimited,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.AnnotateErrors,
		m.UnknownFields,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CatalogRecords:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "grib_catalog", Name: "records"}),
		LookupRequests:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "lookup_requests_total"}, []string{"lookup", "outcome"}),
		RateLimited:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "rate_limited_requests_total"}),
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "messages_produced_total"}),
		AnnotateErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "annotate_errors_total"}),
		UnknownFields:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_catalog", Name: "unknown_fields_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "grib_catalog", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "grib_catalog", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "grib_catalog", Name: "batch_processing_duration_seconds"}),
	}
}
