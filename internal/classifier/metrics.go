package classifier

import (
	"errors"
	"math"
	"sort"
)

// ErrSingleClass is returned by ROCAUC when the labels contain only one
// outcome class; the ranking metric is undefined there. Callers treat the
// affected fold as excluded rather than fatal.
var ErrSingleClass = errors.New("metric undefined for single-class labels")

const logLossEpsilon = 1e-15

// Accuracy returns the weighted share of correct predictions at the 0.5
// threshold.
func Accuracy(probs, labels, weights []float64) float64 {
	var correct, total float64
	for i, p := range probs {
		total += weights[i]
		predicted := 0.0
		if p >= 0.5 {
			predicted = 1.0
		}
		if predicted == labels[i] {
			correct += weights[i]
		}
	}
	if total == 0 {
		return 0
	}
	return correct / total
}

// LogLoss returns the weighted mean cross-entropy with probabilities
// clipped away from 0 and 1.
func LogLoss(probs, labels, weights []float64) float64 {
	var loss, total float64
	for i, p := range probs {
		if p < logLossEpsilon {
			p = logLossEpsilon
		}
		if p > 1-logLossEpsilon {
			p = 1 - logLossEpsilon
		}
		loss += weights[i] * -(labels[i]*math.Log(p) + (1-labels[i])*math.Log(1-p))
		total += weights[i]
	}
	if total == 0 {
		return 0
	}
	return loss / total
}

// ROCAUC returns the weighted area under the ROC curve, computed as the
// weighted probability that a positive sample outranks a negative one,
// with ties counted half.
func ROCAUC(probs, labels, weights []float64) (float64, error) {
	type scored struct {
		p, y, w float64
	}
	items := make([]scored, len(probs))
	var posWeight, negWeight float64
	for i, p := range probs {
		items[i] = scored{p: p, y: labels[i], w: weights[i]}
		if labels[i] >= 0.5 {
			posWeight += weights[i]
		} else {
			negWeight += weights[i]
		}
	}
	if posWeight == 0 || negWeight == 0 {
		return 0, ErrSingleClass
	}

	sort.Slice(items, func(i, j int) bool { return items[i].p < items[j].p })

	var auc, negBelow float64
	for i := 0; i < len(items); {
		j := i
		var tiePos, tieNeg float64
		for j < len(items) && items[j].p == items[i].p {
			if items[j].y >= 0.5 {
				tiePos += items[j].w
			} else {
				tieNeg += items[j].w
			}
			j++
		}
		auc += tiePos * (negBelow + 0.5*tieNeg)
		negBelow += tieNeg
		i = j
	}

	return auc / (posWeight * negWeight), nil
}

// Mean returns the arithmetic mean of values, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
