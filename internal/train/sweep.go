package train

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/gridiron-predictor/internal/classifier"
)

type sweepResult struct {
	lambda      float64
	meanLogLoss float64
	meanAUC     float64
}

// sweepLambda cross-validates every candidate L2 penalty over the usable
// folds, one goroutine per candidate, and picks the lowest mean validation
// log-loss. Ties go to the higher mean AUC, then to the smaller lambda so
// the choice is deterministic for any grid order.
func (t *Trainer) sweepLambda(ctx context.Context, data []foldData, grid []float64) (float64, error) {
	results := make([]sweepResult, len(grid))

	g, ctx := errgroup.WithContext(ctx)
	for i, lambda := range grid {
		i, lambda := i, lambda
		g.Go(func() error {
			var losses, aucs []float64
			for j := range data {
				fd := &data[j]
				if fd.exclude != "" {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				m := t.newLogistic(lambda)
				if err := m.Fit(fd.trainX, fd.trainY, fd.trainW); err != nil {
					return fmt.Errorf("lambda %v fold %d: %w", lambda, fd.fold.Index, err)
				}
				probs := predictAll(m, fd.valX)
				auc, err := classifier.ROCAUC(probs, fd.valY, fd.valW)
				if err != nil {
					return fmt.Errorf("lambda %v fold %d: %w", lambda, fd.fold.Index, err)
				}
				losses = append(losses, classifier.LogLoss(probs, fd.valY, fd.valW))
				aucs = append(aucs, auc)
			}
			results[i] = sweepResult{
				lambda:      lambda,
				meanLogLoss: classifier.Mean(losses),
				meanAUC:     classifier.Mean(aucs),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if betterSweep(r, best) {
			best = r
		}
	}

	t.logger.WithFields(logrus.Fields{
		"lambda":   best.lambda,
		"log_loss": best.meanLogLoss,
		"roc_auc":  best.meanAUC,
		"grid":     len(grid),
	}).Info("Lambda sweep complete")

	return best.lambda, nil
}

func betterSweep(r, best sweepResult) bool {
	if r.meanLogLoss != best.meanLogLoss {
		return r.meanLogLoss < best.meanLogLoss
	}
	if r.meanAUC != best.meanAUC {
		return r.meanAUC > best.meanAUC
	}
	return r.lambda < best.lambda
}
