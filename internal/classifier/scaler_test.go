package classifier

import (
	"errors"
	"math"
	"testing"
)

func TestScalerStandardizes(t *testing.T) {
	rows := [][]float64{
		{10, -3},
		{20, 1},
		{30, 5},
		{40, 9},
	}
	s := &StandardScaler{}
	out, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for j := 0; j < 2; j++ {
		var mean float64
		for i := range out {
			mean += out[i][j]
		}
		mean /= float64(len(out))
		if math.Abs(mean) > 1e-12 {
			t.Fatalf("column %d mean = %v after scaling", j, mean)
		}

		var variance float64
		for i := range out {
			variance += out[i][j] * out[i][j]
		}
		variance /= float64(len(out))
		if math.Abs(variance-1) > 1e-12 {
			t.Fatalf("column %d variance = %v after scaling", j, variance)
		}
	}
}

func TestScalerPopulationStd(t *testing.T) {
	rows := [][]float64{{2}, {4}, {4}, {4}, {5}, {5}, {7}, {9}}
	s := &StandardScaler{}
	if err := s.Fit(rows); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if s.Means[0] != 5 {
		t.Fatalf("mean = %v, want 5", s.Means[0])
	}
	// Population, not sample, standard deviation.
	if s.Scales[0] != 2 {
		t.Fatalf("scale = %v, want 2", s.Scales[0])
	}
}

func TestScalerZeroVariancePassthrough(t *testing.T) {
	rows := [][]float64{
		{1, 1},
		{2, 1},
		{3, 1},
	}
	s := &StandardScaler{}
	out, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// The constant column must keep its raw value, exactly what the home
	// indicator needs on an all-home-win slate.
	for i := range out {
		if out[i][1] != 1 {
			t.Fatalf("constant column row %d = %v, want 1", i, out[i][1])
		}
	}
	if s.Means[1] != 0 || s.Scales[1] != 1 {
		t.Fatalf("zero-variance stats = %v/%v, want 0/1", s.Means[1], s.Scales[1])
	}
}

func TestScalerTransformConsistency(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	s := &StandardScaler{}
	if err := s.Fit(rows); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	batch, err := s.Transform(rows)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	for i := range rows {
		single := s.TransformRow(rows[i])
		for j := range single {
			if single[j] != batch[i][j] {
				t.Fatalf("row/batch transforms diverge at [%d][%d]", i, j)
			}
		}
	}
}

func TestScalerNotFitted(t *testing.T) {
	s := &StandardScaler{}
	if _, err := s.Transform([][]float64{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestScalerEmptyInput(t *testing.T) {
	s := &StandardScaler{}
	if err := s.Fit(nil); err == nil {
		t.Fatalf("expected error fitting on empty input")
	}
}
