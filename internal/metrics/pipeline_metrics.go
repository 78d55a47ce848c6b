// Package metrics defines training-pipeline-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counter vectors
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs by trigger and status",
	}, []string{"trigger", "status"})
)

// Pipeline histogram vectors
var (
	PipelineStageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridiron_predictor",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of individual pipeline stages in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"stage"})
)

// Pipeline gauge vectors
var (
	ModelAccuracyScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gridiron_predictor",
		Name:      "model_accuracy_score",
		Help:      "Cross-validated mean accuracy for each trained model",
	}, []string{"model_name"})

	ModelLogLoss = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gridiron_predictor",
		Name:      "model_log_loss",
		Help:      "Cross-validated mean log loss for each trained model",
	}, []string{"model_name"})
)

// RecordPipelineRun records a pipeline run event.
// trigger should be one of: "manual", "scheduled"
// status should be one of: "success", "failure"
func RecordPipelineRun(trigger, status string) {
	PipelineRunsTotal.WithLabelValues(trigger, status).Inc()
}

// RecordStageDuration records the duration of one pipeline stage.
// stage should be one of: "load", "engineer", "select", "train", "persist"
func RecordStageDuration(stage string, durationSeconds float64) {
	PipelineStageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// UpdateModelAccuracy updates the cross-validated accuracy gauge for a model.
func UpdateModelAccuracy(modelName string, accuracy float64) {
	ModelAccuracyScore.WithLabelValues(modelName).Set(accuracy)
}

// UpdateModelLogLoss updates the cross-validated log loss gauge for a model.
func UpdateModelLogLoss(modelName string, logLoss float64) {
	ModelLogLoss.WithLabelValues(modelName).Set(logLoss)
}
