// Package train fits and cross-validates the two win-probability models
// over walk-forward season folds, sweeps the logistic penalty grid, and
// refits the final models on the full history.
package train

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-predictor/internal/classifier"
	"github.com/yourusername/gridiron-predictor/internal/features"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// DefaultLambdaGrid is the L2 penalty sweep for the logistic model.
var DefaultLambdaGrid = []float64{0.1, 0.2, 1, 2, 10, 100}

// Config parameterizes one training run.
type Config struct {
	MaxFolds        int
	MinTrainSeasons int
	LambdaGrid      []float64
	LearningRate    float64
	Iterations      int
	ForestTrees     int
	ForestMaxDepth  int
	ForestMinLeaf   int
	Seed            int64
}

// Trainer runs cross-validation and final fits. It is stateless across
// runs; every Train call is independent and deterministic for identical
// inputs.
type Trainer struct {
	cfg    Config
	logger *logrus.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg Config, logger *logrus.Logger) *Trainer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Result is the output of one training run: both final models fitted on
// the full history, the standardization fitted alongside them, and the
// cross-validated metric summaries that justified them.
type Result struct {
	Folds      []Fold
	Features   []string
	BestLambda float64

	Scaler   *classifier.StandardScaler
	Logistic *classifier.LogisticRegression
	Forest   *classifier.RandomForest

	LogisticSummary models.MetricSummary
	ForestSummary   models.MetricSummary
	Exclusions      []models.FoldExclusion
}

// foldData is one fold's standardized partitions. Standardization is
// fitted on the fold's training rows only; validation rows reuse those
// statistics unchanged.
type foldData struct {
	fold   Fold
	trainX [][]float64
	trainY []float64
	trainW []float64
	valX   [][]float64
	valY   []float64
	valW   []float64
	// exclude carries the reason this fold is skipped by every model,
	// empty for usable folds.
	exclude string
}

type foldScore struct {
	accuracy float64
	logLoss  float64
	auc      float64
}

// Train cross-validates both model kinds over walk-forward folds and
// refits them on the full training set.
func (t *Trainer) Train(ctx context.Context, ts *features.TrainingSet, selected *models.SelectedFeatureSet) (*Result, error) {
	start := time.Now()
	if len(ts.Vectors) == 0 {
		return nil, &models.DataUnavailableError{Reason: "no training vectors"}
	}
	if selected == nil || selected.Len() == 0 {
		return nil, fmt.Errorf("no selected features to train on")
	}
	cols, ok := features.Indices(selected.Features)
	if !ok {
		return nil, fmt.Errorf("selected features outside the catalog: %v", selected.Features)
	}

	folds, err := ExpandingFolds(ts.Seasons, SplitConfig{
		MaxFolds:        t.cfg.MaxFolds,
		MinTrainSeasons: t.cfg.MinTrainSeasons,
	})
	if err != nil {
		return nil, err
	}
	t.logger.WithFields(logrus.Fields{
		"folds":    len(folds),
		"seasons":  len(ts.Seasons),
		"features": len(cols),
		"rows":     len(ts.Vectors),
	}).Info("Starting training run")

	data, err := t.prepareFolds(ts, cols, folds)
	if err != nil {
		return nil, err
	}
	usable := 0
	for i := range data {
		if data[i].exclude == "" {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("no usable validation folds out of %d", len(folds))
	}

	grid := t.cfg.LambdaGrid
	if len(grid) == 0 {
		grid = DefaultLambdaGrid
	}
	bestLambda, err := t.sweepLambda(ctx, data, grid)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Folds:      folds,
		Features:   selected.Features,
		BestLambda: bestLambda,
	}

	logisticScores, logisticExcl, err := t.crossValidate(ctx, data, models.ModelNameLogisticRegression, func() classifier.Trainable {
		return t.newLogistic(bestLambda)
	})
	if err != nil {
		return nil, err
	}
	forestScores, forestExcl, err := t.crossValidate(ctx, data, models.ModelNameRandomForest, func() classifier.Trainable {
		return t.newForest()
	})
	if err != nil {
		return nil, err
	}

	result.LogisticSummary = summarize(models.ModelNameLogisticRegression, logisticScores, len(logisticExcl))
	result.ForestSummary = summarize(models.ModelNameRandomForest, forestScores, len(forestExcl))
	result.Exclusions = append(logisticExcl, forestExcl...)

	if err := t.finalFit(ts, cols, bestLambda, result); err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{
		"best_lambda":       bestLambda,
		"logistic_accuracy": result.LogisticSummary.Accuracy,
		"logistic_log_loss": result.LogisticSummary.LogLoss,
		"forest_accuracy":   result.ForestSummary.Accuracy,
		"forest_log_loss":   result.ForestSummary.LogLoss,
		"excluded_folds":    len(result.Exclusions),
		"duration":          time.Since(start),
	}).Info("Training run complete")

	return result, nil
}

func (t *Trainer) newLogistic(lambda float64) *classifier.LogisticRegression {
	m := classifier.NewLogisticRegression(lambda)
	if t.cfg.LearningRate > 0 {
		m.LearningRate = t.cfg.LearningRate
	}
	if t.cfg.Iterations > 0 {
		m.Iterations = t.cfg.Iterations
	}
	return m
}

func (t *Trainer) newForest() *classifier.RandomForest {
	return classifier.NewRandomForest(t.cfg.ForestTrees, t.cfg.ForestMaxDepth, t.cfg.ForestMinLeaf, t.cfg.Seed)
}

// prepareFolds projects rows onto the selected columns and standardizes
// each fold from its own training partition.
func (t *Trainer) prepareFolds(ts *features.TrainingSet, cols []int, folds []Fold) ([]foldData, error) {
	rows := projectRows(ts.Matrix(), cols)
	labels := ts.Labels()
	weights := ts.Weights()
	rowSeasons := ts.RowSeasons()

	out := make([]foldData, 0, len(folds))
	for _, fold := range folds {
		trainIdx, valIdx := fold.Partition(rowSeasons)
		fd := foldData{fold: fold}

		switch {
		case len(trainIdx) == 0:
			fd.exclude = "no training vectors in window"
		case len(valIdx) == 0:
			fd.exclude = "no validation vectors in season"
		}
		if fd.exclude != "" {
			out = append(out, fd)
			continue
		}

		trainX := gather(rows, trainIdx)
		scaler := &classifier.StandardScaler{}
		scaledTrain, err := scaler.FitTransform(trainX)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold.Index, err)
		}
		scaledVal, err := scaler.Transform(gather(rows, valIdx))
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold.Index, err)
		}

		fd.trainX = scaledTrain
		fd.trainY = gatherScalars(labels, trainIdx)
		fd.trainW = gatherScalars(weights, trainIdx)
		fd.valX = scaledVal
		fd.valY = gatherScalars(labels, valIdx)
		fd.valW = gatherScalars(weights, valIdx)

		if singleClass(fd.valY, fd.valW) {
			fd.exclude = "validation season has a single outcome class"
		}
		out = append(out, fd)
	}
	return out, nil
}

// crossValidate fits a fresh model per usable fold and scores it on the
// held-out season. Excluded folds are recorded, not fatal.
func (t *Trainer) crossValidate(ctx context.Context, data []foldData, name string, newModel func() classifier.Trainable) ([]foldScore, []models.FoldExclusion, error) {
	var scores []foldScore
	var exclusions []models.FoldExclusion

	for i := range data {
		fd := &data[i]
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if fd.exclude != "" {
			exclusions = append(exclusions, models.FoldExclusion{
				ModelName:        name,
				Fold:             fd.fold.Index,
				ValidationSeason: fd.fold.ValidationSeason,
				Reason:           fd.exclude,
			})
			t.logger.WithFields(logrus.Fields{
				"model":             name,
				"fold":              fd.fold.Index,
				"validation_season": fd.fold.ValidationSeason,
				"reason":            fd.exclude,
			}).Warn("Excluding fold from metric aggregation")
			continue
		}

		model := newModel()
		if err := model.Fit(fd.trainX, fd.trainY, fd.trainW); err != nil {
			return nil, nil, fmt.Errorf("%s fold %d: %w", name, fd.fold.Index, err)
		}
		probs := predictAll(model, fd.valX)
		auc, err := classifier.ROCAUC(probs, fd.valY, fd.valW)
		if err != nil {
			return nil, nil, fmt.Errorf("%s fold %d: %w", name, fd.fold.Index, err)
		}
		scores = append(scores, foldScore{
			accuracy: classifier.Accuracy(probs, fd.valY, fd.valW),
			logLoss:  classifier.LogLoss(probs, fd.valY, fd.valW),
			auc:      auc,
		})
	}
	return scores, exclusions, nil
}

// finalFit standardizes the full projected matrix and fits both deployment
// models on every vector.
func (t *Trainer) finalFit(ts *features.TrainingSet, cols []int, bestLambda float64, result *Result) error {
	rows := projectRows(ts.Matrix(), cols)
	labels := ts.Labels()
	weights := ts.Weights()

	scaler := &classifier.StandardScaler{}
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		return err
	}

	logistic := t.newLogistic(bestLambda)
	if err := logistic.Fit(scaled, labels, weights); err != nil {
		return fmt.Errorf("final logistic fit: %w", err)
	}
	forest := t.newForest()
	if err := forest.Fit(scaled, labels, weights); err != nil {
		return fmt.Errorf("final forest fit: %w", err)
	}

	result.Scaler = scaler
	result.Logistic = logistic
	result.Forest = forest
	return nil
}

func summarize(name string, scores []foldScore, excluded int) models.MetricSummary {
	acc := make([]float64, len(scores))
	loss := make([]float64, len(scores))
	auc := make([]float64, len(scores))
	for i, s := range scores {
		acc[i] = s.accuracy
		loss[i] = s.logLoss
		auc[i] = s.auc
	}
	return models.MetricSummary{
		ModelName:     name,
		Accuracy:      classifier.Mean(acc),
		AccuracyStd:   classifier.StdDev(acc),
		LogLoss:       classifier.Mean(loss),
		LogLossStd:    classifier.StdDev(loss),
		ROCAUC:        classifier.Mean(auc),
		ROCAUCStd:     classifier.StdDev(auc),
		Folds:         len(scores),
		ExcludedFolds: excluded,
	}
}

func projectRows(rows [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		projected := make([]float64, len(cols))
		for j, c := range cols {
			projected[j] = row[c]
		}
		out[i] = projected
	}
	return out
}

func gather(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func gatherScalars(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func predictAll(model classifier.Classifier, rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = model.PredictProba(row)
	}
	return out
}

func singleClass(labels, weights []float64) bool {
	var pos, neg float64
	for i, y := range labels {
		if y >= 0.5 {
			pos += weights[i]
		} else {
			neg += weights[i]
		}
	}
	return pos == 0 || neg == 0
}
