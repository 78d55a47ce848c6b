// Package metrics provides centralized Prometheus metrics registry for the prediction pipeline.
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
	GamesLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "games_loaded_total",
		Help:      "Total number of games accepted into training sets",
	})
	RowsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "rows_dropped_total",
		Help:      "Total number of provider rows dropped by validation",
	})
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "predictions_total",
		Help:      "Total number of matchup predictions served",
	})
	ArtifactWritesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "artifact_writes_total",
		Help:      "Total number of artifact bundles published",
	})
)

// Gauge metrics
var (
	ActiveModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_predictor",
		Name:      "active_models",
		Help:      "Number of currently active registry models",
	})
	LastRunUnixTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_predictor",
		Name:      "last_run_unix_time",
		Help:      "Unix timestamp of the last completed training run",
	})
	LoadedSeasons = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_predictor",
		Name:      "loaded_seasons",
		Help:      "Number of seasons covered by the last training run",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_predictor",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of matchup prediction operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_predictor",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of full training pipeline runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(GamesLoadedTotal)
		registry.MustRegister(RowsDroppedTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(ArtifactWritesTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveModels)
		registry.MustRegister(LastRunUnixTime)
		registry.MustRegister(LoadedSeasons)

		// Register histogram metrics
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(PipelineDuration)

		// Register pipeline metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(PipelineStageDuration)
		registry.MustRegister(ModelAccuracyScore)
		registry.MustRegister(ModelLogLoss)

		// Register provider metrics
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderCacheEventsTotal)
		registry.MustRegister(ProviderRetriesTotal)
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

// RecordGamesLoaded records games accepted into a training set.
func RecordGamesLoaded(count int) {
	GamesLoadedTotal.Add(float64(count))
}

// RecordRowsDropped records provider rows rejected by validation.
func RecordRowsDropped(count int) {
	RowsDroppedTotal.Add(float64(count))
}

// RecordPrediction records a served prediction and its latency.
func RecordPrediction(durationSeconds float64) {
	PredictionsTotal.Inc()
	PredictionLatency.Observe(durationSeconds)
}

// RecordArtifactWrite records a published artifact bundle.
func RecordArtifactWrite() {
	ArtifactWritesTotal.Inc()
}

// UpdateActiveModels updates the active registry models gauge.
func UpdateActiveModels(count float64) {
	ActiveModels.Set(count)
}

// UpdateLastRunTime updates the last completed run timestamp gauge.
func UpdateLastRunTime(unixTime float64) {
	LastRunUnixTime.Set(unixTime)
}

// UpdateLoadedSeasons updates the covered seasons gauge.
func UpdateLoadedSeasons(count float64) {
	LoadedSeasons.Set(count)
}

// RecordPipelineDuration records the duration of a full pipeline run.
func RecordPipelineDuration(durationSeconds float64) {
	PipelineDuration.Observe(durationSeconds)
}
