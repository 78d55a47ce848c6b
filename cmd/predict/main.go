package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-predictor/internal/artifact"
	"github.com/yourusername/gridiron-predictor/internal/config"
	"github.com/yourusername/gridiron-predictor/internal/dataset"
	"github.com/yourusername/gridiron-predictor/internal/features"
	applogger "github.com/yourusername/gridiron-predictor/internal/logger"
	"github.com/yourusername/gridiron-predictor/internal/models"
	"github.com/yourusername/gridiron-predictor/internal/predictor"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	bundlePath   string
	teamA        string
	teamB        string
	homeTeam     string
	neutralSite  bool
	season       int
	modelName    string
	withInterval bool
	jsonOutput   bool

	logger     *logrus.Logger
	predLogger *applogger.PredictionLogger
	cfg        *config.Config
	bundle     *artifact.Bundle
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&bundlePath, "bundle", "", "Path to a bundle file (defaults to the latest published run)")

	gameCmd.Flags().StringVarP(&teamA, "team-a", "a", "", "First team code (required)")
	gameCmd.Flags().StringVarP(&teamB, "team-b", "b", "", "Second team code (required)")
	gameCmd.Flags().StringVar(&homeTeam, "home", "", "Which team hosts (defaults to team-a)")
	gameCmd.Flags().BoolVar(&neutralSite, "neutral", false, "Game is at a neutral site")
	gameCmd.Flags().IntVar(&season, "season", 0, "Season supplying team records (defaults to the configured last season)")
	gameCmd.Flags().StringVarP(&modelName, "model", "m", models.ModelNameLogisticRegression, "Model to serve: logistic_regression, random_forest")
	gameCmd.Flags().BoolVar(&withInterval, "interval", false, "Include the bootstrap probability interval")
	gameCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Serve win probabilities from a published model bundle",
	Long:  `Serve two-team win probabilities, fair odds and feature contributions from the artifact bundle a training run published.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Predict one matchup",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return predictGame(ctx)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models in the bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		displayModels()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predict %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(gameCmd, modelsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	// Setup logger
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	predLogger = applogger.NewPredictionLogger(logger)

	// Load the bundle
	store, err := artifact.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}

	if bundlePath != "" {
		bundle, err = store.Load(bundlePath)
	} else {
		bundle, err = store.LoadLatest()
	}
	if err != nil {
		return fmt.Errorf("failed to load bundle: %w", err)
	}

	predLogger.LogBundleLoaded(bundle.RunID, bundlePath, len(bundle.Models), bundle.FeatureSet.Len())

	return nil
}

func predictGame(ctx context.Context) error {
	if teamA == "" || teamB == "" {
		return fmt.Errorf("both --team-a and --team-b are required")
	}

	normalizer := dataset.NewNormalizer(nil)
	codeA := normalizer.NormalizeTeam(teamA)
	codeB := normalizer.NormalizeTeam(teamB)
	for _, code := range []string{codeA, codeB} {
		if !dataset.IsCanonicalTeam(code) {
			return fmt.Errorf("unknown team %q", code)
		}
	}

	recordSeason := season
	if recordSeason == 0 {
		recordSeason = cfg.Training.LastSeason
	}

	recordA, recordB, err := loadTeamRecords(ctx, recordSeason, codeA, codeB)
	if err != nil {
		return err
	}

	p, err := predictor.New(bundle, modelName)
	if err != nil {
		return err
	}

	started := time.Now()
	pred, err := p.Predict(predictor.Request{
		TeamA:        codeA,
		TeamB:        codeB,
		RecordA:      recordA,
		RecordB:      recordB,
		HomeField:    resolveHomeField(codeA, codeB),
		WithInterval: withInterval,
	})
	if err != nil {
		predLogger.LogPredictionError(modelName, err.Error())
		return err
	}

	predLogger.LogPredictionRequest(pred.ModelName, pred.TeamA, pred.TeamB, pred.WinProbA, false, float64(time.Since(started).Milliseconds()))

	if jsonOutput {
		data, err := json.MarshalIndent(pred, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	displayPrediction(pred, recordSeason)
	return nil
}

// loadTeamRecords pulls one season through the primary provider and
// returns both teams' season-to-date records.
func loadTeamRecords(ctx context.Context, recordSeason int, codeA, codeB string) (*models.SeasonTeamRecord, *models.SeasonTeamRecord, error) {
	datasetLogger := log.New(os.Stderr, "provider: ", log.LstdFlags)
	factory := dataset.NewFactory(cfg, datasetLogger)
	provider, err := factory.NewPrimaryProvider()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build data provider: %w", err)
	}

	loader := dataset.NewLoader(provider, datasetLogger)
	games, _, err := loader.Load(ctx, recordSeason, recordSeason)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load season %d: %w", recordSeason, err)
	}

	ledger, err := features.NewAggregator().BuildSeason(recordSeason, games)
	if err != nil {
		return nil, nil, err
	}

	recordA, ok := ledger.Finals[codeA]
	if !ok {
		return nil, nil, fmt.Errorf("team %s has no games in season %d", codeA, recordSeason)
	}
	recordB, ok := ledger.Finals[codeB]
	if !ok {
		return nil, nil, fmt.Errorf("team %s has no games in season %d", codeB, recordSeason)
	}

	return recordA, recordB, nil
}

func resolveHomeField(codeA, codeB string) models.HomeField {
	if neutralSite {
		return models.HomeFieldNeutral
	}
	switch homeTeam {
	case "", codeA:
		return models.HomeFieldTeamA
	case codeB:
		return models.HomeFieldTeamB
	}
	return models.HomeFieldTeamA
}

func displayPrediction(pred *predictor.Prediction, recordSeason int) {
	fmt.Printf("\n%s vs %s  (season %d records, model %s, run %s)\n\n", pred.TeamA, pred.TeamB, recordSeason, pred.ModelName, shortRunID(pred.RunID))

	fmt.Printf("  %-6s win probability: %6.1f%%   fair odds: %s\n", pred.TeamA, pred.WinProbA*100, pred.FairOddsA.StringFixed(2))
	fmt.Printf("  %-6s win probability: %6.1f%%   fair odds: %s\n", pred.TeamB, pred.WinProbB*100, pred.FairOddsB.StringFixed(2))

	if pred.Interval != nil {
		fmt.Printf("\n  95%% interval on %s: %.1f%% - %.1f%%\n", pred.TeamA, pred.Interval.Lower*100, pred.Interval.Upper*100)
	}

	fmt.Println("\nFeature contributions:")
	for _, c := range pred.Contributions {
		favors := "even"
		if c.Favors != "" {
			favors = "favors " + c.Favors
		}
		fmt.Printf("  %-28s %+8.3f   %s\n", c.Name, c.Value, favors)
	}
	fmt.Println()
}

func displayModels() {
	fmt.Printf("\nBundle %s\n", bundle.RunID)
	fmt.Printf("  Created:  %s\n", bundle.CreatedAt.Format(time.RFC3339))
	fmt.Printf("  Seasons:  %d-%d (%d seasons, %d training rows)\n", bundle.SeasonFirst, bundle.SeasonLast, len(bundle.Seasons), bundle.TrainingRows)
	fmt.Printf("  Features: %d of %d selected\n\n", bundle.FeatureSet.Len(), features.Count)

	for _, art := range bundle.Models {
		fmt.Printf("✓ %s (%s)\n", art.Name, art.Kind)
		fmt.Printf("    accuracy: %.4f ± %.4f\n", art.Metrics.Accuracy, art.Metrics.AccuracyStd)
		fmt.Printf("    log loss: %.4f ± %.4f\n", art.Metrics.LogLoss, art.Metrics.LogLossStd)
		fmt.Printf("    roc auc:  %.4f ± %.4f\n", art.Metrics.ROCAUC, art.Metrics.ROCAUCStd)
		if art.BestLambda > 0 {
			fmt.Printf("    lambda:   %g\n", art.BestLambda)
		}
		if art.Metrics.ExcludedFolds > 0 {
			fmt.Printf("    excluded folds: %d\n", art.Metrics.ExcludedFolds)
		}
		fmt.Println()
	}
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
