// Package metrics provides Prometheus metrics for the filing collection.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for collection operations. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	AddsTotal        prometheus.Counter
	AddFailuresTotal *prometheus.CounterVec
	AddDuration      prometheus.Histogram

	SearchesTotal  prometheus.Counter
	ResultsTotal   prometheus.Counter
	SearchDuration prometheus.Histogram

	ReadsTotal             prometheus.Counter
	IntegrityFailuresTotal prometheus.Counter

	RecordsTotal prometheus.Gauge
}

// New creates and registers all collection metrics with reg. Passing
// prometheus.DefaultRegisterer gives the usual process-global registry;
// tests pass a fresh prometheus.NewRegistry to avoid duplicate
// registration across cases.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.AddsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "fino_collection_adds_total",
			Help: "Total number of filings added to the collection",
		},
	)

	m.AddFailuresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fino_collection_add_failures_total",
			Help: "Total number of failed add operations",
		},
		[]string{"reason"},
	)

	m.AddDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fino_collection_add_duration_seconds",
			Help:    "Duration of add operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	m.SearchesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "fino_collection_searches_total",
			Help: "Total number of search queries",
		},
	)

	m.ResultsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "fino_collection_search_results_total",
			Help: "Total number of search results returned",
		},
	)

	m.SearchDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fino_collection_search_duration_seconds",
			Help:    "Duration of search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.ReadsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "fino_collection_content_reads_total",
			Help: "Total number of content reads",
		},
	)

	m.IntegrityFailuresTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "fino_collection_integrity_failures_total",
			Help: "Total number of checksum mismatches detected on read",
		},
	)

	m.RecordsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "fino_collection_records_total",
			Help: "Number of records currently in the catalog",
		},
	)

	return m
}

// RecordAdd records a completed add operation.
func (m *Metrics) RecordAdd(duration time.Duration) {
	if m == nil {
		return
	}
	m.AddsTotal.Inc()
	m.AddDuration.Observe(duration.Seconds())
}

// RecordAddFailure records a failed add operation with its reason.
func (m *Metrics) RecordAddFailure(reason string) {
	if m == nil {
		return
	}
	m.AddFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordSearch records a search query and the number of results it returned.
func (m *Metrics) RecordSearch(results int, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.Inc()
	m.ResultsTotal.Add(float64(results))
	m.SearchDuration.Observe(duration.Seconds())
}

// RecordRead records a content read.
func (m *Metrics) RecordRead() {
	if m == nil {
		return
	}
	m.ReadsTotal.Inc()
}

// RecordIntegrityFailure records a checksum mismatch detected on read.
func (m *Metrics) RecordIntegrityFailure() {
	if m == nil {
		return
	}
	m.IntegrityFailuresTotal.Inc()
}

// SetRecordCount updates the catalog record count gauge.
func (m *Metrics) SetRecordCount(n int64) {
	if m == nil {
		return
	}
	m.RecordsTotal.Set(float64(n))
}
