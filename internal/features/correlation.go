package features

import "math"

// PearsonMatrix computes pairwise Pearson correlations between feature
// columns. rows are samples, each of equal length p; the result is a
// symmetric p x p matrix with unit diagonal. Zero-variance columns
// correlate 0 with everything so a constant feature is never flagged as
// redundant.
func PearsonMatrix(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	p := len(rows[0])
	n := float64(len(rows))

	means := make([]float64, p)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	// Centered column norms.
	norms := make([]float64, p)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			norms[j] += d * d
		}
	}
	for j := range norms {
		norms[j] = math.Sqrt(norms[j])
	}

	matrix := make([][]float64, p)
	for i := range matrix {
		matrix[i] = make([]float64, p)
		matrix[i][i] = 1
	}

	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			var cov float64
			for _, row := range rows {
				cov += (row[i] - means[i]) * (row[j] - means[j])
			}
			r := cov / (norms[i] * norms[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return matrix
}
