package train

import (
	"errors"
	"testing"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

func seasonRange(first, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = first + i
	}
	return out
}

func TestExpandingFoldsDefaults(t *testing.T) {
	folds, err := ExpandingFolds(seasonRange(2015, 10), SplitConfig{})
	if err != nil {
		t.Fatalf("ExpandingFolds failed: %v", err)
	}
	if len(folds) != DefaultMaxFolds {
		t.Fatalf("folds = %d, want %d", len(folds), DefaultMaxFolds)
	}

	// Validation seasons are the latest five, oldest fold first.
	wantVal := []int{2020, 2021, 2022, 2023, 2024}
	for i, f := range folds {
		if f.Index != i+1 {
			t.Fatalf("fold %d has index %d", i, f.Index)
		}
		if f.ValidationSeason != wantVal[i] {
			t.Fatalf("fold %d validates %d, want %d", i, f.ValidationSeason, wantVal[i])
		}
		if len(f.TrainSeasons) != 5+i {
			t.Fatalf("fold %d trains on %d seasons, want %d", i, len(f.TrainSeasons), 5+i)
		}
		for _, s := range f.TrainSeasons {
			if s >= f.ValidationSeason {
				t.Fatalf("fold %d trains on %d, not before validation %d", i, s, f.ValidationSeason)
			}
		}
	}

	// Expanding window: each fold's training seasons extend the previous
	// fold's by exactly its validation season.
	for i := 1; i < len(folds); i++ {
		prev := folds[i-1]
		cur := folds[i]
		if cur.TrainSeasons[len(cur.TrainSeasons)-1] != prev.ValidationSeason {
			t.Fatalf("fold %d window does not absorb fold %d validation season", i, i-1)
		}
	}
}

func TestExpandingFoldsSingleFold(t *testing.T) {
	folds, err := ExpandingFolds(seasonRange(2019, 5), SplitConfig{MinTrainSeasons: 4})
	if err != nil {
		t.Fatalf("ExpandingFolds failed: %v", err)
	}
	if len(folds) != 1 {
		t.Fatalf("folds = %d, want 1", len(folds))
	}
	f := folds[0]
	if f.ValidationSeason != 2023 {
		t.Fatalf("validation season = %d, want 2023", f.ValidationSeason)
	}
	if len(f.TrainSeasons) != 4 || f.TrainSeasons[0] != 2019 || f.TrainSeasons[3] != 2022 {
		t.Fatalf("train window = %v, want 2019-2022", f.TrainSeasons)
	}
}

func TestExpandingFoldsMinimumHistory(t *testing.T) {
	// Three seasons is the floor: two to train, one to validate.
	folds, err := ExpandingFolds(seasonRange(2022, 3), SplitConfig{})
	if err != nil {
		t.Fatalf("ExpandingFolds failed: %v", err)
	}
	if len(folds) != 1 || folds[0].ValidationSeason != 2024 {
		t.Fatalf("unexpected folds %+v", folds)
	}

	_, err = ExpandingFolds(seasonRange(2023, 2), SplitConfig{})
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history error, got %v", err)
	}
	var insufficient *models.InsufficientHistoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if insufficient.Seasons != 2 {
		t.Fatalf("error reports %d seasons", insufficient.Seasons)
	}
}

func TestExpandingFoldsWindowTooDemanding(t *testing.T) {
	_, err := ExpandingFolds(seasonRange(2020, 4), SplitConfig{MinTrainSeasons: 4})
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history error, got %v", err)
	}
}

func TestExpandingFoldsDeduplicates(t *testing.T) {
	seasons := []int{2022, 2020, 2021, 2022, 2020, 2023}
	folds, err := ExpandingFolds(seasons, SplitConfig{})
	if err != nil {
		t.Fatalf("ExpandingFolds failed: %v", err)
	}
	// Four distinct seasons, default minimum of two in training.
	if len(folds) != 2 {
		t.Fatalf("folds = %d, want 2", len(folds))
	}
	if folds[0].ValidationSeason != 2022 || folds[1].ValidationSeason != 2023 {
		t.Fatalf("validation seasons = %d, %d", folds[0].ValidationSeason, folds[1].ValidationSeason)
	}
}

func TestFoldPartition(t *testing.T) {
	fold := Fold{Index: 1, TrainSeasons: []int{2020, 2021}, ValidationSeason: 2022}
	rowSeasons := []int{2020, 2022, 2021, 2023, 2022, 2020}

	trainIdx, valIdx := fold.Partition(rowSeasons)
	wantTrain := []int{0, 2, 5}
	wantVal := []int{1, 4}
	if len(trainIdx) != len(wantTrain) || len(valIdx) != len(wantVal) {
		t.Fatalf("partition sizes = %d/%d, want %d/%d", len(trainIdx), len(valIdx), len(wantTrain), len(wantVal))
	}
	for i := range wantTrain {
		if trainIdx[i] != wantTrain[i] {
			t.Fatalf("train indices = %v, want %v", trainIdx, wantTrain)
		}
	}
	for i := range wantVal {
		if valIdx[i] != wantVal[i] {
			t.Fatalf("validation indices = %v, want %v", valIdx, wantVal)
		}
	}
}
