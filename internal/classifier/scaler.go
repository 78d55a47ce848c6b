package classifier

import (
	"errors"
	"math"
)

// StandardScaler centers features to zero mean and scales them to unit
// variance. Statistics are fitted strictly on a training partition and then
// applied unchanged to validation or live rows. Zero-variance columns pass
// through untouched (mean 0, scale 1) so a constant indicator keeps its raw
// value instead of collapsing to zero.
type StandardScaler struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// ErrNotFitted is returned when a scaler is used before Fit.
var ErrNotFitted = errors.New("scaler not fitted")

// Fit computes per-column means and standard deviations from rows.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return errors.New("cannot fit scaler on empty input")
	}
	p := len(rows[0])
	means := make([]float64, p)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	n := float64(len(rows))
	for j := range means {
		means[j] /= n
	}

	scales := make([]float64, p)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			means[j] = 0
			scales[j] = 1
		}
	}

	s.Means = means
	s.Scales = scales
	return nil
}

// Transform returns standardized copies of rows using the fitted
// statistics.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	if s.Means == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.TransformRow(row)
	}
	return out, nil
}

// TransformRow standardizes a single row.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Scales[j]
	}
	return out
}

// FitTransform fits on rows and returns their standardized copies.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
