package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the extraction pipeline.
type Metrics struct {
	Registry           *prometheus.Registry
	PagesProcessed     *prometheus.CounterVec
	FieldsFilled       *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	EnrichmentFailures prometheus.Counter
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_pages_processed_total",
			Help: "Total product pages processed by terminal status.",
		},
		[]string{"status"},
	)
	fields := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_fields_filled_total",
			Help: "Total record fields filled by extraction source.",
		},
		[]string{"source"},
	)
	enrichDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extractor_enrichment_duration_seconds",
			Help:    "Latency of completion-model enrichment calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
	enrichFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extractor_enrichment_failures_total",
			Help: "Total enrichment attempts that returned an error.",
		},
	)

	registry.MustRegister(pages, fields, enrichDuration, enrichFailures)

	return &Metrics{
		Registry:           registry,
		PagesProcessed:     pages,
		FieldsFilled:       fields,
		EnrichmentDuration: enrichDuration,
		EnrichmentFailures: enrichFailures,
	}
}

// IncPage increments the processed-pages counter for a terminal status.
func (m *Metrics) IncPage(status string) {
	if m == nil {
		return
	}
	m.PagesProcessed.WithLabelValues(status).Inc()
}

// AddFieldsFilled records how many fields a source contributed to a record.
func (m *Metrics) AddFieldsFilled(source string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.FieldsFilled.WithLabelValues(source).Add(float64(count))
}

// ObserveEnrichment records an enrichment call duration.
func (m *Metrics) ObserveEnrichment(d time.Duration) {
	if m == nil {
		return
	}
	m.EnrichmentDuration.Observe(d.Seconds())
}

// IncEnrichmentFailure increments the enrichment failure counter.
func (m *Metrics) IncEnrichmentFailure() {
	if m == nil {
		return
	}
	m.EnrichmentFailures.Inc()
}
