// Package telemetry exposes Prometheus metrics for the ingestion pipeline
// and the sentiment engine router.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all service Prometheus metrics.
type Metrics struct {
	// Pipeline metrics
	ItemsIngested     *prometheus.CounterVec // by source
	ItemsSkippedEmpty prometheus.Counter
	IngestDuration    prometheus.Histogram

	// Sentiment router metrics
	RemoteAttempts  prometheus.Counter
	RemoteFallbacks prometheus.Counter
	BudgetExhausted prometheus.Counter
	LabelTotal      *prometheus.CounterVec // by label
}

// NewMetrics registers and returns all metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production; a fresh
// prometheus.NewRegistry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ItemsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "globalpulse_items_ingested_total",
			Help: "Items enriched and upserted into the store.",
		}, []string{"source"}),
		ItemsSkippedEmpty: factory.NewCounter(prometheus.CounterOpts{
			Name: "globalpulse_items_skipped_empty_total",
			Help: "Items dropped because their cleaned text was empty.",
		}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "globalpulse_ingest_duration_seconds",
			Help:    "Wall time of complete ingestion calls.",
			Buckets: prometheus.DefBuckets,
		}),
		RemoteAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "globalpulse_sentiment_remote_attempts_total",
			Help: "Remote sentiment calls attempted (successful or not).",
		}),
		RemoteFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "globalpulse_sentiment_remote_fallbacks_total",
			Help: "Remote sentiment failures recovered by the lexicon engine.",
		}),
		BudgetExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "globalpulse_sentiment_budget_exhausted_total",
			Help: "Remote calls skipped because the call budget was spent.",
		}),
		LabelTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "globalpulse_sentiment_labels_total",
			Help: "Sentiment labels produced, by label.",
		}, []string{"label"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
