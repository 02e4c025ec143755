// Package metrics provides the centralized Prometheus metrics registry for
// the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tennis_moneyline",
		Name:      "prediction_runs_total",
		Help:      "Total number of prediction runs started",
	})
	MatchupsAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tennis_moneyline",
		Name:      "matchups_analyzed_total",
		Help:      "Total number of matchups that produced a prediction",
	})
	MatchupsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_moneyline",
		Name:      "matchups_skipped_total",
		Help:      "Total number of matchups skipped, by reason",
	}, []string{"reason"})
	ArchiveRowsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tennis_moneyline",
		Name:      "archive_rows_rejected_total",
		Help:      "Total number of archive rows rejected by validation",
	})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tennis_moneyline",
		Name:      "predictions_stored_total",
		Help:      "Total number of predictions persisted",
	})
)

// Gauge metrics
var (
	LastRunPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tennis_moneyline",
		Name:      "last_run_predictions",
		Help:      "Number of predictions produced by the most recent run",
	})
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tennis_moneyline",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed run",
	})
	HistoryRowsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tennis_moneyline",
		Name:      "history_rows_loaded",
		Help:      "Historical match rows loaded for the most recent run",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tennis_moneyline",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of one Monte Carlo simulation batch in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PredictionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tennis_moneyline",
		Name:      "prediction_run_duration_seconds",
		Help:      "Duration of a full prediction run in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionRunsTotal)
		registry.MustRegister(MatchupsAnalyzedTotal)
		registry.MustRegister(MatchupsSkippedTotal)
		registry.MustRegister(ArchiveRowsRejectedTotal)
		registry.MustRegister(PredictionsStoredTotal)

		registry.MustRegister(LastRunPredictions)
		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(HistoryRowsLoaded)

		registry.MustRegister(SimulationDuration)
		registry.MustRegister(PredictionRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRunStarted records the start of a prediction run.
func RecordRunStarted() {
	PredictionRunsTotal.Inc()
}

// RecordMatchupAnalyzed records a matchup that produced a prediction.
func RecordMatchupAnalyzed() {
	MatchupsAnalyzedTotal.Inc()
}

// RecordMatchupSkipped records a skipped matchup with its reason.
func RecordMatchupSkipped(reason string) {
	MatchupsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordArchiveRowRejected records an archive row rejected by validation.
func RecordArchiveRowRejected() {
	ArchiveRowsRejectedTotal.Inc()
}

// RecordPredictionStored records a persisted prediction.
func RecordPredictionStored() {
	PredictionsStoredTotal.Inc()
}

// RecordSimulationDuration records the duration of one simulation batch.
func RecordSimulationDuration(durationSeconds float64) {
	SimulationDuration.Observe(durationSeconds)
}

// RecordRunCompleted records summary gauges and duration for a finished run.
func RecordRunCompleted(predictions int, durationSeconds float64) {
	LastRunPredictions.Set(float64(predictions))
	LastRunTimestamp.SetToCurrentTime()
	PredictionRunDuration.Observe(durationSeconds)
}
