// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction serving.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPredictionRequest logs a completed matchup prediction.
func (pl *PredictionLogger) LogPredictionRequest(modelName, teamA, teamB string, winProbA float64, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"model_name": modelName,
		"team_a":     teamA,
		"team_b":     teamB,
		"win_prob_a": winProbA,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Prediction request completed")
}

// LogBundleLoaded logs loading a model bundle for serving.
func (pl *PredictionLogger) LogBundleLoaded(runID, path string, modelCount, featureCount int) {
	pl.WithFields(logrus.Fields{
		"run_id":        runID,
		"path":          path,
		"model_count":   modelCount,
		"feature_count": featureCount,
	}).Info("Model bundle loaded")
}

// LogPredictionError logs prediction failures.
func (pl *PredictionLogger) LogPredictionError(modelName string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"model_name":   modelName,
		"error_reason": errorReason,
	}).Error("Prediction failed")
}
