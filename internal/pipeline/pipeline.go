// Package pipeline orchestrates the four-stage training run: load,
// feature engineering, feature selection, training, then persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-predictor/internal/artifact"
	"github.com/yourusername/gridiron-predictor/internal/config"
	"github.com/yourusername/gridiron-predictor/internal/dataset"
	"github.com/yourusername/gridiron-predictor/internal/features"
	"github.com/yourusername/gridiron-predictor/internal/logger"
	"github.com/yourusername/gridiron-predictor/internal/metrics"
	"github.com/yourusername/gridiron-predictor/internal/models"
	"github.com/yourusername/gridiron-predictor/internal/repository"
	"github.com/yourusername/gridiron-predictor/internal/train"
)

// Run triggers, recorded in metrics and the registry.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// Stage names, used for duration metrics and failure attribution.
const (
	StageLoad     = "load"
	StageEngineer = "engineer"
	StageSelect   = "select"
	StageTrain    = "train"
	StagePersist  = "persist"
)

// Report summarizes one completed pipeline run.
type Report struct {
	RunID             string                 `json:"run_id"`
	Trigger           string                 `json:"trigger"`
	Provider          string                 `json:"provider"`
	SeasonFirst       int                    `json:"season_first"`
	SeasonLast        int                    `json:"season_last"`
	GamesLoaded       int                    `json:"games_loaded"`
	RowsDropped       int                    `json:"rows_dropped"`
	TrainingRows      int                    `json:"training_rows"`
	SkippedMatchups   int                    `json:"skipped_matchups"`
	CandidateFeatures int                    `json:"candidate_features"`
	SelectedFeatures  []string               `json:"selected_features"`
	BestLambda        float64                `json:"best_lambda"`
	BestModel         string                 `json:"best_model"`
	Models            []models.MetricSummary `json:"models"`
	BundlePath        string                 `json:"bundle_path"`
	RegistryUpdated   bool                   `json:"registry_updated"`
	Duration          time.Duration          `json:"duration_ns"`
	CompletedAt       time.Time              `json:"completed_at"`
}

// Engine coordinates one training run end to end. Stages execute strictly
// sequentially; a failed stage aborts the run. Registry and audit side
// effects never abort a run that produced a valid bundle.
type Engine struct {
	config        *config.Config
	provider      dataset.StatsProvider
	repos         *repository.Repositories
	logger        *logrus.Logger
	stageLogger   *logger.PipelineLogger
	auditLogger   *logger.AuditLogger
	datasetLogger *log.Logger
}

// NewEngine creates a pipeline engine. repos may be nil when the registry
// is disabled; datasetLogger may be nil to silence provider-level logging.
func NewEngine(
	cfg *config.Config,
	provider dataset.StatsProvider,
	repos *repository.Repositories,
	baseLogger *logrus.Logger,
	datasetLogger *log.Logger,
) *Engine {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &Engine{
		config:        cfg,
		provider:      provider,
		repos:         repos,
		logger:        baseLogger,
		stageLogger:   logger.NewPipelineLogger(baseLogger),
		auditLogger:   logger.NewAuditLogger(baseLogger),
		datasetLogger: datasetLogger,
	}
}

// Run executes the full pipeline once. trigger records what started the
// run (manual CLI invocation or the retraining scheduler).
func (e *Engine) Run(ctx context.Context, trigger string) (*Report, error) {
	start := time.Now()
	first := e.config.Training.FirstSeason
	last := e.config.Training.LastSeason
	runID := artifact.NewRunID(first, last, start)

	e.logger.WithFields(logrus.Fields{
		"run_id":       runID,
		"trigger":      trigger,
		"provider":     e.provider.Name(),
		"first_season": first,
		"last_season":  last,
	}).Info("Starting training pipeline")

	e.auditLogger.LogRunStarted(runID, e.provider.Name(), first, last, start)
	e.recordRunStarted(ctx, runID, first, last, start)

	report, err := e.execute(ctx, runID, trigger, first, last, start)
	if err != nil {
		metrics.RecordPipelineRun(trigger, "failure")
		e.recordRunFailed(ctx, runID, err)
		return nil, err
	}

	report.Duration = time.Since(start)
	report.CompletedAt = time.Now()
	metrics.RecordPipelineRun(trigger, "success")
	metrics.RecordPipelineDuration(report.Duration.Seconds())
	metrics.UpdateLastRunTime(float64(report.CompletedAt.Unix()))

	e.recordRunCompleted(ctx, report)
	e.auditLogger.LogRunCompleted(runID, len(report.Models), report.BestModel, report.Duration.Seconds())

	e.logger.WithFields(logrus.Fields{
		"run_id":            runID,
		"games_loaded":      report.GamesLoaded,
		"training_rows":     report.TrainingRows,
		"selected_features": len(report.SelectedFeatures),
		"best_model":        report.BestModel,
		"bundle_path":       report.BundlePath,
		"duration":          report.Duration.Round(time.Millisecond).String(),
	}).Info("Training pipeline complete")

	return report, nil
}

// execute runs the five stages in order and assembles the report.
func (e *Engine) execute(ctx context.Context, runID, trigger string, first, last int, start time.Time) (*Report, error) {
	report := &Report{
		RunID:             runID,
		Trigger:           trigger,
		Provider:          e.provider.Name(),
		SeasonFirst:       first,
		SeasonLast:        last,
		CandidateFeatures: features.Count,
	}

	// Stage 1: load the season range from the provider
	stageStart := time.Now()
	loader := dataset.NewLoader(e.provider, e.datasetLogger)
	games, loadReport, err := loader.Load(ctx, first, last)
	if err != nil {
		return nil, e.failStage(StageLoad, err)
	}

	dropped := loadReport.DroppedRaw + loadReport.DroppedGames
	report.GamesLoaded = len(games)
	report.RowsDropped = dropped

	metrics.RecordGamesLoaded(len(games))
	metrics.RecordRowsDropped(dropped)
	metrics.UpdateLoadedSeasons(float64(len(loadReport.Seasons)))
	metrics.RecordStageDuration(StageLoad, time.Since(stageStart).Seconds())
	e.stageLogger.LogDataLoad(e.provider.Name(), loadReport.Seasons, len(games), dropped, float64(time.Since(stageStart).Milliseconds()))

	// Stage 2: build the leakage-free training set
	stageStart = time.Now()
	engineer := features.NewEngineer(e.config.Features.PythagoreanExponent)
	builder := features.NewBuilder(engineer, e.config.Features.PlayoffWeight)
	ts, err := builder.Build(games, loadReport.Seasons)
	if err != nil {
		return nil, e.failStage(StageEngineer, err)
	}

	report.TrainingRows = len(ts.Vectors)
	report.SkippedMatchups = ts.Skipped

	metrics.RecordStageDuration(StageEngineer, time.Since(stageStart).Seconds())
	e.stageLogger.LogFeatureBuild(len(ts.Vectors), features.Count, ts.Seasons, float64(time.Since(stageStart).Milliseconds()))

	// Stage 3: select the feature subset both models share
	stageStart = time.Now()
	selector := features.NewSelector(e.selectorConfig())
	selected, err := selector.Select(ts)
	if err != nil {
		return nil, e.failStage(StageSelect, err)
	}

	report.SelectedFeatures = selected.Features

	droppedCorrelated, droppedLowImportance := countDropped(selected)
	metrics.RecordStageDuration(StageSelect, time.Since(stageStart).Seconds())
	e.stageLogger.LogFeatureSelection(features.Count, selected.Len(), droppedCorrelated, droppedLowImportance)

	// Stage 4: cross-validate and fit both models
	stageStart = time.Now()
	trainer := train.NewTrainer(e.trainConfig(), e.logger)
	result, err := trainer.Train(ctx, ts, selected)
	if err != nil {
		return nil, e.failStage(StageTrain, err)
	}

	trainSeconds := time.Since(stageStart).Seconds()
	report.BestLambda = result.BestLambda
	report.Models = []models.MetricSummary{result.LogisticSummary, result.ForestSummary}
	report.BestModel = bestModel(result)

	metrics.RecordStageDuration(StageTrain, trainSeconds)
	e.logTrainedModels(result, trainSeconds)

	// Stage 5: persist the bundle and update the registry
	stageStart = time.Now()
	trainedAt := time.Now()
	bundle, err := buildBundle(runID, trainedAt, ts, selected, result, e.config)
	if err != nil {
		return nil, e.failStage(StagePersist, err)
	}

	store, err := artifact.NewStore(e.config.Artifacts.Dir)
	if err != nil {
		return nil, e.failStage(StagePersist, err)
	}

	path, err := store.Save(bundle)
	if err != nil {
		return nil, e.failStage(StagePersist, err)
	}

	report.BundlePath = path
	metrics.RecordArtifactWrite()
	e.auditLogger.LogArtifactWritten(runID, path, bundleSize(path))

	// Registry publication is best-effort once the bundle is on disk
	if e.registryEnabled() {
		if err := e.publishToRegistry(ctx, runID, path, trainedAt, bundle, result); err != nil {
			e.logger.WithError(err).Warn("Failed to publish run to model registry")
		} else {
			report.RegistryUpdated = true
			metrics.UpdateActiveModels(float64(len(bundle.Models)))
		}
	}

	metrics.RecordStageDuration(StagePersist, time.Since(stageStart).Seconds())

	return report, nil
}

// failStage logs and wraps a fatal stage error.
func (e *Engine) failStage(stage string, err error) error {
	e.stageLogger.LogStageError(stage, err.Error())
	return fmt.Errorf("%s stage failed: %w", stage, err)
}

// selectorConfig maps configuration onto the selector, sharing the forest
// shape and seed with training so importances match the final ensemble.
func (e *Engine) selectorConfig() features.SelectorConfig {
	return features.SelectorConfig{
		ImportanceFloor:      e.config.Features.ImportanceFloor,
		CorrelationThreshold: e.config.Features.CorrelationThreshold,
		MinFeatures:          e.config.Features.MinFeatures,
		MaxFeatures:          e.config.Features.MaxFeatures,
		SamplesPerFeature:    e.config.Features.SamplesPerFeature,
		ForestTrees:          e.config.Training.ForestTrees,
		ForestMaxDepth:       e.config.Training.ForestMaxDepth,
		ForestMinLeaf:        e.config.Training.ForestMinLeaf,
		Seed:                 e.config.Training.Seed,
	}
}

func (e *Engine) trainConfig() train.Config {
	return train.Config{
		MaxFolds:        e.config.Training.MaxFolds,
		MinTrainSeasons: e.config.Training.MinTrainSeasons,
		LambdaGrid:      e.config.Training.LambdaGrid,
		LearningRate:    e.config.Training.LearningRate,
		Iterations:      e.config.Training.Iterations,
		ForestTrees:     e.config.Training.ForestTrees,
		ForestMaxDepth:  e.config.Training.ForestMaxDepth,
		ForestMinLeaf:   e.config.Training.ForestMinLeaf,
		Seed:            e.config.Training.Seed,
	}
}

func (e *Engine) registryEnabled() bool {
	return e.repos != nil && e.config.Artifacts.RegistryEnabled
}

// logTrainedModels emits one structured training record per model, with
// metric gauges updated alongside.
func (e *Engine) logTrainedModels(result *train.Result, trainSeconds float64) {
	summaries := []models.MetricSummary{result.LogisticSummary, result.ForestSummary}
	for _, summary := range summaries {
		e.stageLogger.LogModelTraining(summary.ModelName, trainSeconds, map[string]float64{
			"accuracy": summary.Accuracy,
			"log_loss": summary.LogLoss,
			"roc_auc":  summary.ROCAUC,
		}, hyperparametersFor(summary.ModelName, result, e.config))

		metrics.UpdateModelAccuracy(summary.ModelName, summary.Accuracy)
		metrics.UpdateModelLogLoss(summary.ModelName, summary.LogLoss)
	}
}

// recordRunStarted inserts the running row; failures degrade to a warning
// because the registry is an optional surface.
func (e *Engine) recordRunStarted(ctx context.Context, runID string, first, last int, start time.Time) {
	if e.repos == nil {
		return
	}

	run := &models.TrainingRun{
		RunID:       runID,
		SeasonFirst: first,
		SeasonLast:  last,
		Provider:    e.provider.Name(),
		Status:      models.RunStatusRunning,
		StartedAt:   start,
		CreatedAt:   start,
	}
	if err := e.repos.Run.Create(ctx, run); err != nil {
		e.logger.WithError(err).Warn("Failed to record run start in registry")
	}
}

func (e *Engine) recordRunCompleted(ctx context.Context, report *Report) {
	if e.repos == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to encode run report")
		payload = nil
	}
	if err := e.repos.Run.MarkCompleted(ctx, report.RunID, report.GamesLoaded, payload); err != nil {
		e.logger.WithError(err).Warn("Failed to record run completion in registry")
	}
}

func (e *Engine) recordRunFailed(ctx context.Context, runID string, runErr error) {
	stage := stageOf(runErr)
	e.auditLogger.LogRunFailed(runID, stage, runErr.Error())

	if e.repos == nil {
		return
	}
	if err := e.repos.Run.MarkFailed(ctx, runID, runErr.Error()); err != nil {
		e.logger.WithError(err).Warn("Failed to record run failure in registry")
	}
}

// publishToRegistry writes one model row per artifact and atomically swaps
// the active set to this run.
func (e *Engine) publishToRegistry(ctx context.Context, runID, path string, trainedAt time.Time, bundle *artifact.Bundle, result *train.Result) error {
	for i := range bundle.Models {
		art := &bundle.Models[i]

		metricsJSON, err := json.Marshal(art.Metrics)
		if err != nil {
			return fmt.Errorf("encoding metrics for %s: %w", art.Name, err)
		}
		hyperJSON, err := json.Marshal(hyperparametersFor(art.Name, result, e.config))
		if err != nil {
			return fmt.Errorf("encoding hyperparameters for %s: %w", art.Name, err)
		}

		row := &models.Model{
			ID:              uuid.New(),
			Name:            art.Name,
			Version:         runID,
			ModelType:       art.Kind,
			Path:            path,
			SeasonFirst:     bundle.SeasonFirst,
			SeasonLast:      bundle.SeasonLast,
			Metrics:         metricsJSON,
			Hyperparameters: hyperJSON,
			TrainedAt:       trainedAt,
		}
		if err := e.repos.Model.Create(ctx, row); err != nil {
			return fmt.Errorf("inserting model row %s: %w", art.Name, err)
		}
	}

	if err := e.repos.Model.ActivateRun(ctx, runID); err != nil {
		return fmt.Errorf("activating run: %w", err)
	}

	for i := range bundle.Models {
		e.auditLogger.LogRegistryUpdate(runID, bundle.Models[i].Name, true, "pipeline")
	}

	return nil
}

// buildBundle assembles the persisted artifact from the run's outputs.
func buildBundle(runID string, trainedAt time.Time, ts *features.TrainingSet, selected *models.SelectedFeatureSet, result *train.Result, cfg *config.Config) (*artifact.Bundle, error) {
	logisticParams, err := json.Marshal(result.Logistic)
	if err != nil {
		return nil, fmt.Errorf("encoding logistic parameters: %w", err)
	}
	forestParams, err := json.Marshal(result.Forest)
	if err != nil {
		return nil, fmt.Errorf("encoding forest parameters: %w", err)
	}

	return &artifact.Bundle{
		RunID:               runID,
		CreatedAt:           trainedAt,
		SeasonFirst:         cfg.Training.FirstSeason,
		SeasonLast:          cfg.Training.LastSeason,
		Seasons:             ts.Seasons,
		PythagoreanExponent: cfg.Features.PythagoreanExponent,
		PlayoffWeight:       cfg.Features.PlayoffWeight,
		TrainingRows:        len(ts.Vectors),
		SkippedMatchups:     ts.Skipped,
		ImputedVectors:      ts.ImputedVectors,
		FeatureSet:          *selected,
		Standardization: models.Standardization{
			Features: result.Features,
			Means:    result.Scaler.Means,
			Scales:   result.Scaler.Scales,
		},
		Models: []models.ModelArtifact{
			{
				Name:       models.ModelNameLogisticRegression,
				Kind:       models.ModelKindLinear,
				Features:   result.Features,
				Parameters: logisticParams,
				Metrics:    result.LogisticSummary,
				BestLambda: result.BestLambda,
			},
			{
				Name:       models.ModelNameRandomForest,
				Kind:       models.ModelKindEnsemble,
				Features:   result.Features,
				Parameters: forestParams,
				Metrics:    result.ForestSummary,
			},
		},
		Folds:         result.Folds,
		ExcludedFolds: result.Exclusions,
	}, nil
}

// hyperparametersFor reports the settings that produced the named model.
func hyperparametersFor(name string, result *train.Result, cfg *config.Config) map[string]interface{} {
	switch name {
	case models.ModelNameLogisticRegression:
		return map[string]interface{}{
			"lambda":        result.BestLambda,
			"learning_rate": cfg.Training.LearningRate,
			"iterations":    cfg.Training.Iterations,
		}
	case models.ModelNameRandomForest:
		return map[string]interface{}{
			"trees":     cfg.Training.ForestTrees,
			"max_depth": cfg.Training.ForestMaxDepth,
			"min_leaf":  cfg.Training.ForestMinLeaf,
			"seed":      cfg.Training.Seed,
		}
	default:
		return map[string]interface{}{}
	}
}

// bestModel picks the summary with the lower cross-validated log loss,
// breaking ties toward the simpler linear model.
func bestModel(result *train.Result) string {
	if result.ForestSummary.LogLoss < result.LogisticSummary.LogLoss {
		return models.ModelNameRandomForest
	}
	return models.ModelNameLogisticRegression
}

// countDropped splits unselected features into correlation casualties and
// everything else (importance floor or the sample-ratio cap).
func countDropped(selected *models.SelectedFeatureSet) (correlated, lowImportance int) {
	for _, imp := range selected.Importances {
		if imp.Selected {
			continue
		}
		if imp.DroppedFor != "" {
			correlated++
		} else {
			lowImportance++
		}
	}
	return correlated, lowImportance
}

// stageOf extracts the stage prefix from a wrapped stage error for audit
// attribution; unknown shapes report as "pipeline".
func stageOf(err error) string {
	msg := err.Error()
	for _, stage := range []string{StageLoad, StageEngineer, StageSelect, StageTrain, StagePersist} {
		if len(msg) >= len(stage) && msg[:len(stage)] == stage {
			return stage
		}
	}
	return "pipeline"
}

func bundleSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
