package models

// MetricSummary aggregates one model's cross-validated metrics: the mean and
// population standard deviation of each score across validation folds. This
// is the exact shape serving collaborators read from the artifact bundle.
type MetricSummary struct {
	ModelName     string  `json:"model_name"`
	Accuracy      float64 `json:"accuracy"`
	AccuracyStd   float64 `json:"accuracy_std"`
	LogLoss       float64 `json:"log_loss"`
	LogLossStd    float64 `json:"log_loss_std"`
	ROCAUC        float64 `json:"roc_auc"`
	ROCAUCStd     float64 `json:"roc_auc_std"`
	Folds         int     `json:"folds"`
	ExcludedFolds int     `json:"excluded_folds,omitempty"`
}

// FoldExclusion records a validation fold dropped from metric aggregation,
// e.g. because its validation season contained a single outcome class.
// Exclusions are recorded in the bundle rather than failing the run.
type FoldExclusion struct {
	ModelName        string `json:"model_name"`
	Fold             int    `json:"fold"`
	ValidationSeason int    `json:"validation_season"`
	Reason           string `json:"reason"`
}
