package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simuteknikko/tennis-moneyline/internal/config"
	"github.com/simuteknikko/tennis-moneyline/internal/database"
	"github.com/simuteknikko/tennis-moneyline/internal/datasource"
	"github.com/simuteknikko/tennis-moneyline/internal/export"
	"github.com/simuteknikko/tennis-moneyline/internal/form"
	"github.com/simuteknikko/tennis-moneyline/internal/logger"
	"github.com/simuteknikko/tennis-moneyline/internal/model"
	"github.com/simuteknikko/tennis-moneyline/internal/players"
	"github.com/simuteknikko/tennis-moneyline/internal/repository"
	"github.com/simuteknikko/tennis-moneyline/internal/service"
	"github.com/simuteknikko/tennis-moneyline/internal/simulator"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	asOfDate   string
	scanDays   int
	seed       int64
	outputDir  string
	noDB       bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&asOfDate, "as-of", "", "Evaluation date (YYYY-MM-DD, default today)")
	rootCmd.Flags().IntVar(&scanDays, "scan-days", 0, "Override forward scan window in days")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Simulation seed for reproducible runs")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Override export output directory")
	rootCmd.Flags().BoolVar(&noDB, "no-db", false, "Skip database persistence even when configured")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the tennis moneyline prediction pipeline once",
	Long:  `Loads recent tour history, finds the next day of scheduled play, simulates every matchup and prints fair moneyline odds for each favorite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredictions(cmd.Context())
	},
}

func main() {
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if scanDays > 0 {
		cfg.Schedule.ScanDays = scanDays
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	if cfg.Database.Enabled && !noDB {
		var err error
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func runPredictions(ctx context.Context) error {
	svc, err := buildService()
	if err != nil {
		return err
	}

	asOf := time.Now().UTC()
	if asOfDate != "" {
		parsed, err := time.Parse("2006-01-02", asOfDate)
		if err != nil {
			return fmt.Errorf("invalid as-of date: %w", err)
		}
		asOf = parsed
	}

	result, err := svc.RunPredictionsAsOf(ctx, asOf)
	if err != nil {
		return fmt.Errorf("prediction run failed: %w", err)
	}

	if len(result.Predictions) == 0 {
		fmt.Println("No playable matchups found in the scan window.")
		return nil
	}

	printTable(result)
	return exportResult(result)
}

func buildService() (*service.PredictionService, error) {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.Archive.Timeout()
	httpCfg.MaxRetries = cfg.Archive.MaxRetries
	httpCfg.RateLimit = cfg.Archive.RateLimit

	httpLogger := stdlog.New(os.Stdout, "http: ", stdlog.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, httpLogger)

	archiveLog := stdlog.New(os.Stdout, "archive: ", stdlog.LstdFlags)
	scheduleLog := stdlog.New(os.Stdout, "schedule: ", stdlog.LstdFlags)
	archive := datasource.NewArchiveClient(httpClient, cfg.Archive.BaseURL, cfg.Archive.CacheTTL(), archiveLog)
	schedule := datasource.NewScheduleClient(httpClient, cfg.Schedule.BaseURL, scheduleLog)

	estimator, err := form.NewEstimator(formConfig(cfg.Model), players.NewSurnameContainsResolver(), appLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator: %w", err)
	}

	var (
		repo     repository.PredictionRepository
		histRepo repository.HistoricalMatchRepository
	)
	if db != nil {
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
		repo = repos.Prediction
		histRepo = repos.HistoricalMatch
	}

	opts := service.Options{
		ModelConfig: modelConfig(cfg.Model),
		SimConfig:   simConfig(cfg.Simulation),
		ScanDays:    cfg.Schedule.ScanDays,
		Concurrency: cfg.Simulation.Workers,
	}

	validatorLog := stdlog.New(os.Stdout, "validator: ", stdlog.LstdFlags)
	return service.NewPredictionService(
		archive,
		schedule,
		estimator,
		service.NewMatchValidator(validatorLog),
		repo,
		histRepo,
		opts,
		appLog,
	)
}

func formConfig(m config.ModelConfig) form.Config {
	return form.Config{
		Window:              m.Window(),
		FatigueWindow:       m.FatigueWindow(),
		BaselineServe:       m.BaselineServe,
		BaselineReturn:      1 - m.BaselineServe,
		DefaultMatchMinutes: m.DefaultMatchMinutes,
		H2HUpperThreshold:   m.H2HUpperThreshold,
		H2HLowerThreshold:   m.H2HLowerThreshold,
		H2HEdge:             m.H2HEdge,
	}
}

func modelConfig(m config.ModelConfig) model.Config {
	return model.Config{
		BaselineServe:       m.BaselineServe,
		BaselineReturn:      1 - m.BaselineServe,
		FatigueThresholdMin: m.FatigueThresholdMinutes,
		FatiguePenalty:      m.FatiguePenalty,
		ClampMin:            m.ClampMin,
		ClampMax:            m.ClampMax,
	}
}

func simConfig(s config.SimulationConfig) simulator.Config {
	return simulator.Config{
		Iterations: s.Iterations,
		Workers:    s.Workers,
		Seed:       s.Seed,
	}
}

func printTable(result *service.RunResult) {
	fmt.Printf("\nPredictions for %s (%d matchups, %d skipped)\n\n",
		result.AsOf.Format("2006-01-02"), len(result.Predictions), result.Skipped)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTOURNAMENT\tSURFACE\tFAVORITE\tUNDERDOG\tWIN%\tFAIR ODDS\tNOTES")
	for _, p := range result.Predictions {
		notes := p.H2HNote
		if p.FatigueAlert != "" {
			notes = p.FatigueAlert + " " + notes
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s\n",
			p.MatchDate.Format("2006-01-02"),
			p.Tournament,
			p.Surface,
			p.Favorite,
			p.Underdog,
			p.WinProbability*100,
			p.FairOdds.StringFixed(2),
			notes,
		)
	}
	w.Flush()
	fmt.Println()
}

func exportResult(result *service.RunResult) error {
	runExport := export.RunExport{
		RunID:        result.RunID,
		GeneratedAt:  time.Now().UTC(),
		AsOf:         result.AsOf,
		HistoryRows:  result.HistoryRows,
		RejectedRows: result.RejectedRows,
		Skipped:      result.Skipped,
		Predictions:  result.Predictions,
	}

	audit := logger.NewAuditLogger(appLog)
	stamp := result.AsOf.Format("2006-01-02")
	for _, format := range cfg.Export.Formats {
		switch format {
		case "json":
			path := filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("predictions_%s.json", stamp))
			if err := export.ToJSON(runExport, path); err != nil {
				return fmt.Errorf("failed to write JSON export: %w", err)
			}
			audit.LogExportWritten(result.RunID.String(), "json", path, len(result.Predictions))
		case "csv":
			path := filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("predictions_%s.csv", stamp))
			if err := export.ToCSV(runExport, path); err != nil {
				return fmt.Errorf("failed to write CSV export: %w", err)
			}
			audit.LogExportWritten(result.RunID.String(), "csv", path, len(result.Predictions))
		}
	}
	return nil
}
