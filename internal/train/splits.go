package train

import (
	"sort"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Split defaults: at most five validation folds, and at least two full
// seasons of training data behind the earliest one.
const (
	DefaultMaxFolds        = 5
	DefaultMinTrainSeasons = 2

	// minSeasons is the hard floor for any time-series split: two to
	// train on and one to hold out.
	minSeasons = 3
)

// Fold pairs an expanding training window of whole seasons with the single
// season that follows it, held out for validation. Folds never interleave:
// every training season strictly precedes the validation season.
type Fold struct {
	Index            int   `json:"index"`
	TrainSeasons     []int `json:"train_seasons"`
	ValidationSeason int   `json:"validation_season"`
}

// SplitConfig bounds the walk-forward fold construction.
type SplitConfig struct {
	MaxFolds        int
	MinTrainSeasons int
}

// ExpandingFolds builds walk-forward folds over the given seasons. The
// last min(MaxFolds, n-MinTrainSeasons) seasons each become a validation
// fold, oldest first, with every earlier season in the training window.
// Fewer than three seasons, or a window too short to leave one fold, is an
// InsufficientHistoryError.
func ExpandingFolds(seasons []int, cfg SplitConfig) ([]Fold, error) {
	if cfg.MaxFolds <= 0 {
		cfg.MaxFolds = DefaultMaxFolds
	}
	if cfg.MinTrainSeasons <= 0 {
		cfg.MinTrainSeasons = DefaultMinTrainSeasons
	}

	distinct := make([]int, 0, len(seasons))
	seen := make(map[int]bool, len(seasons))
	for _, s := range seasons {
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, s)
		}
	}
	sort.Ints(distinct)

	n := len(distinct)
	if n < minSeasons {
		return nil, &models.InsufficientHistoryError{Seasons: n, Required: minSeasons}
	}

	folds := n - cfg.MinTrainSeasons
	if folds > cfg.MaxFolds {
		folds = cfg.MaxFolds
	}
	if folds < 1 {
		return nil, &models.InsufficientHistoryError{Seasons: n, Required: cfg.MinTrainSeasons + 1}
	}

	out := make([]Fold, 0, folds)
	for i := 0; i < folds; i++ {
		valPos := n - folds + i
		train := make([]int, valPos)
		copy(train, distinct[:valPos])
		out = append(out, Fold{
			Index:            i + 1,
			TrainSeasons:     train,
			ValidationSeason: distinct[valPos],
		})
	}
	return out, nil
}

// Partition maps per-row seasons onto this fold's train and validation row
// indices, preserving row order.
func (f *Fold) Partition(rowSeasons []int) (trainIdx, valIdx []int) {
	train := make(map[int]bool, len(f.TrainSeasons))
	for _, s := range f.TrainSeasons {
		train[s] = true
	}
	for i, s := range rowSeasons {
		switch {
		case train[s]:
			trainIdx = append(trainIdx, i)
		case s == f.ValidationSeason:
			valIdx = append(valIdx, i)
		}
	}
	return trainIdx, valIdx
}
