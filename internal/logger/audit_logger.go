// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for training runs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRunStarted logs the start of a training run.
func (al *AuditLogger) LogRunStarted(runID, provider string, firstSeason, lastSeason int, startedAt time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":       runID,
		"provider":     provider,
		"first_season": firstSeason,
		"last_season":  lastSeason,
		"started_at":   startedAt.Unix(),
	}).Info("Training run started")
}

// LogRunCompleted logs successful completion of a training run.
func (al *AuditLogger) LogRunCompleted(runID string, modelsTrained int, bestModel string, durationSeconds float64) {
	al.WithFields(logrus.Fields{
		"run_id":           runID,
		"models_trained":   modelsTrained,
		"best_model":       bestModel,
		"duration_seconds": durationSeconds,
	}).Info("Training run completed")
}

// LogRunFailed logs a training run failure.
func (al *AuditLogger) LogRunFailed(runID, stage, reason string) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"stage":  stage,
		"reason": reason,
	}).Warn("Training run failed")
}

// LogArtifactWritten logs persistence of a model bundle.
func (al *AuditLogger) LogArtifactWritten(runID, path string, sizeBytes int64) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"path":       path,
		"size_bytes": sizeBytes,
	}).Info("Artifact bundle written")
}

// LogRegistryUpdate logs a model registry state change.
func (al *AuditLogger) LogRegistryUpdate(runID, modelName string, active bool, changedBy string) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"model_name": modelName,
		"active":     active,
		"changed_by": changedBy,
	}).Info("Model registry updated")
}

// LogConfigChange logs configuration parameter changes between runs.
func (al *AuditLogger) LogConfigChange(parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Configuration parameter changed")
}
