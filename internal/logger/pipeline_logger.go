// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for training pipeline stages.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogDataLoad logs completion of the data loading stage.
func (pl *PipelineLogger) LogDataLoad(provider string, seasons []int, gamesLoaded, rowsDropped int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"provider":     provider,
		"seasons":      seasons,
		"games_loaded": gamesLoaded,
		"rows_dropped": rowsDropped,
		"duration_ms":  durationMs,
	}).Info("Data load completed")
}

// LogFeatureBuild logs completion of the feature engineering stage.
func (pl *PipelineLogger) LogFeatureBuild(rows, featureCount int, seasons []int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"rows":          rows,
		"feature_count": featureCount,
		"seasons":       seasons,
		"duration_ms":   durationMs,
	}).Info("Feature build completed")
}

// LogFeatureSelection logs the feature selection outcome.
func (pl *PipelineLogger) LogFeatureSelection(candidates, selected, droppedCorrelated, droppedLowImportance int) {
	pl.WithFields(logrus.Fields{
		"candidates":             candidates,
		"selected":               selected,
		"dropped_correlated":     droppedCorrelated,
		"dropped_low_importance": droppedLowImportance,
	}).Info("Feature selection completed")
}

// LogModelTraining logs model training events.
func (pl *PipelineLogger) LogModelTraining(modelName string, trainingDuration float64, metrics map[string]float64, hyperparameters map[string]interface{}) {
	pl.WithFields(logrus.Fields{
		"model_name":        modelName,
		"training_duration": trainingDuration,
		"metrics":           metrics,
		"hyperparameters":   hyperparameters,
	}).Info("Model training completed")
}

// LogFoldEvaluation logs a single cross-validation fold result.
func (pl *PipelineLogger) LogFoldEvaluation(modelName string, fold, holdoutSeason int, accuracy, logLoss, brier float64) {
	pl.WithFields(logrus.Fields{
		"model_name":     modelName,
		"fold":           fold,
		"holdout_season": holdoutSeason,
		"accuracy":       accuracy,
		"log_loss":       logLoss,
		"brier":          brier,
	}).Info("Fold evaluation completed")
}

// LogStageError logs a pipeline stage failure.
func (pl *PipelineLogger) LogStageError(stage string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"stage":        stage,
		"error_reason": errorReason,
	}).Error("Pipeline stage failed")
}
