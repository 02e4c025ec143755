// Package service orchestrates the prediction workflow: fetch history and
// schedule, estimate form, derive serve probabilities, simulate, rank.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/simuteknikko/tennis-moneyline/internal/datasource"
	"github.com/simuteknikko/tennis-moneyline/internal/form"
	applog "github.com/simuteknikko/tennis-moneyline/internal/logger"
	"github.com/simuteknikko/tennis-moneyline/internal/metrics"
	"github.com/simuteknikko/tennis-moneyline/internal/model"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
	"github.com/simuteknikko/tennis-moneyline/internal/repository"
	"github.com/simuteknikko/tennis-moneyline/internal/simulator"
)

// seedStride separates per-matchup random streams. It exceeds any plausible
// worker count so per-worker offsets never collide across matchups.
const seedStride = 100003

// PredictionService runs the full prediction pipeline for one slate of
// upcoming matchups.
type PredictionService struct {
	history     datasource.HistoryProvider
	schedule    datasource.ScheduleProvider
	estimator   *form.Estimator
	validator   *MatchValidator
	repo        repository.PredictionRepository
	histRepo    repository.HistoricalMatchRepository
	modelCfg    model.Config
	simCfg      simulator.Config
	scanDays    int
	concurrency int
	logger      *logrus.Logger
	runLog      *applog.RunLogger
	audit       *applog.AuditLogger
	runMetrics  *RunMetrics
}

// Options configures a PredictionService
type Options struct {
	ModelConfig model.Config
	SimConfig   simulator.Config
	ScanDays    int // forward days to scan for scheduled play
	Concurrency int // concurrent matchup analyses
}

// DefaultOptions returns production defaults
func DefaultOptions() Options {
	return Options{
		ModelConfig: model.DefaultConfig(),
		SimConfig:   simulator.DefaultConfig(),
		ScanDays:    14,
		Concurrency: 4,
	}
}

// RunResult is the outcome of one prediction run. Predictions are ordered by
// descending favorite win probability.
type RunResult struct {
	RunID        uuid.UUID
	AsOf         time.Time
	Predictions  []*models.Prediction
	HistoryRows  int
	RejectedRows int
	Skipped      int
	Duration     time.Duration
}

// NewPredictionService creates a prediction service. The repositories are
// optional; a nil repo disables prediction persistence and a nil histRepo
// disables archive-row persistence.
func NewPredictionService(
	history datasource.HistoryProvider,
	schedule datasource.ScheduleProvider,
	estimator *form.Estimator,
	validator *MatchValidator,
	repo repository.PredictionRepository,
	histRepo repository.HistoricalMatchRepository,
	opts Options,
	logger *logrus.Logger,
) (*PredictionService, error) {
	if history == nil || schedule == nil {
		return nil, fmt.Errorf("history and schedule providers are required")
	}
	if estimator == nil {
		return nil, fmt.Errorf("form estimator is required")
	}
	if validator == nil {
		validator = NewMatchValidator(nil)
	}
	if err := opts.ModelConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if opts.ScanDays <= 0 {
		opts.ScanDays = 14
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &PredictionService{
		history:     history,
		schedule:    schedule,
		estimator:   estimator,
		validator:   validator,
		repo:        repo,
		histRepo:    histRepo,
		modelCfg:    opts.ModelConfig,
		simCfg:      opts.SimConfig,
		scanDays:    opts.ScanDays,
		concurrency: opts.Concurrency,
		logger:      logger,
		runLog:      applog.NewRunLogger(logger),
		audit:       applog.NewAuditLogger(logger),
		runMetrics:  NewRunMetrics(),
	}, nil
}

// RunPredictions executes one full run as of now: loads the trailing two
// archive seasons and the next scheduled day of play, analyzes every matchup,
// and returns ranked predictions.
func (s *PredictionService) RunPredictions(ctx context.Context) (*RunResult, error) {
	return s.RunPredictionsAsOf(ctx, time.Now().UTC())
}

// RunPredictionsAsOf is RunPredictions with an explicit evaluation time,
// which fixes the trailing form window.
func (s *PredictionService) RunPredictionsAsOf(ctx context.Context, asOf time.Time) (*RunResult, error) {
	runID := uuid.New()
	s.runMetrics.Reset()
	metrics.RecordRunStarted()
	start := time.Now()

	log := s.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"as_of":  asOf.Format("2006-01-02"),
	})
	s.runLog.LogRunStarted(runID.String(), asOf.Format("2006-01-02"), s.scanDays)

	history, matchups, err := s.loadInputs(ctx, asOf)
	if err != nil {
		s.runMetrics.RecordError()
		return nil, err
	}

	valid, rejected := s.validator.FilterValid(history)
	for i := 0; i < rejected; i++ {
		metrics.RecordArchiveRowRejected()
	}
	s.runMetrics.RecordHistory(len(valid), rejected)
	metrics.HistoryRowsLoaded.Set(float64(len(valid)))

	s.runLog.LogInputsLoaded(runID.String(), len(valid), rejected, len(matchups))

	if s.histRepo != nil && len(valid) > 0 {
		if err := s.histRepo.InsertBatch(ctx, valid); err != nil {
			s.runMetrics.RecordError()
			log.WithError(err).Error("Failed to persist historical matches")
		}
	}

	result := &RunResult{
		RunID:        runID,
		AsOf:         asOf,
		HistoryRows:  len(valid),
		RejectedRows: rejected,
	}
	if len(matchups) == 0 {
		log.Warn("No upcoming matchups found in scan window")
		result.Duration = time.Since(start)
		return result, nil
	}

	table := make([]*models.HistoricalMatch, len(valid))
	for i := range valid {
		table[i] = &valid[i]
	}

	predictions := make([]*models.Prediction, len(matchups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range matchups {
		i := i
		g.Go(func() error {
			analysisStart := time.Now()
			pred, err := s.analyzeMatchup(gctx, runID, matchups[i], table, asOf, s.matchupSeed(i))
			if err != nil {
				if errors.Is(err, models.ErrInsufficientData) {
					s.runMetrics.RecordSkip()
					metrics.RecordMatchupSkipped("insufficient_data")
					s.runLog.LogMatchupSkipped(runID.String(), matchupLabel(matchups[i]), "insufficient_data")
					return nil
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.runMetrics.RecordError()
				metrics.RecordMatchupSkipped("error")
				s.logger.WithField("matchup", matchupLabel(matchups[i])).WithError(err).Error("Matchup analysis failed")
				return nil
			}
			predictions[i] = pred
			s.runMetrics.RecordPrediction()
			metrics.RecordMatchupAnalyzed()
			s.runLog.LogMatchupAnalyzed(
				runID.String(),
				matchupLabel(matchups[i]),
				pred.Favorite,
				pred.WinProbability,
				pred.Iterations,
				float64(time.Since(analysisStart).Milliseconds()),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range predictions {
		if p != nil {
			result.Predictions = append(result.Predictions, p)
		}
	}
	result.Skipped = len(matchups) - len(result.Predictions)

	// Rank by favorite win probability, strongest edge first
	sort.SliceStable(result.Predictions, func(i, j int) bool {
		return result.Predictions[i].WinProbability > result.Predictions[j].WinProbability
	})

	if s.repo != nil && len(result.Predictions) > 0 {
		if err := s.repo.InsertBatch(ctx, result.Predictions); err != nil {
			s.runMetrics.RecordError()
			log.WithError(err).Error("Failed to persist predictions")
		} else {
			s.audit.LogPredictionsPersisted(runID.String(), len(result.Predictions), time.Now().UTC())
			for range result.Predictions {
				metrics.RecordPredictionStored()
			}
		}
	}

	result.Duration = time.Since(start)
	s.runMetrics.mu.Lock()
	s.runMetrics.TotalMatchups = len(matchups)
	s.runMetrics.Duration = result.Duration
	s.runMetrics.mu.Unlock()
	metrics.RecordRunCompleted(len(result.Predictions), result.Duration.Seconds())

	s.runLog.LogRunCompleted(
		runID.String(),
		len(result.Predictions),
		result.Skipped,
		s.runMetrics.ErrorCount(),
		float64(result.Duration.Milliseconds()),
	)

	return result, nil
}

// Metrics returns the current run metrics
func (s *PredictionService) Metrics() *RunMetrics {
	return s.runMetrics
}

// loadInputs fetches the archive seasons and the schedule concurrently. The
// form window trails 52 weeks, so the current and previous season files
// together always cover it.
func (s *PredictionService) loadInputs(ctx context.Context, asOf time.Time) ([]models.HistoricalMatch, []models.Matchup, error) {
	var (
		history  []models.HistoricalMatch
		matchups []models.Matchup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		years := []int{asOf.Year() - 1, asOf.Year()}
		var err error
		history, err = s.history.FetchHistory(gctx, years)
		if err != nil {
			return fmt.Errorf("fetching history from %s: %w", s.history.Name(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matchups, err = s.schedule.FetchUpcoming(gctx, asOf, s.scanDays)
		if err != nil {
			return fmt.Errorf("fetching schedule from %s: %w", s.schedule.Name(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return history, matchups, nil
}

// analyzeMatchup runs the model cascade for one matchup: form for both
// players, head-to-head edge, serve probabilities, Monte Carlo playouts.
func (s *PredictionService) analyzeMatchup(
	ctx context.Context,
	runID uuid.UUID,
	matchup models.Matchup,
	history []*models.HistoricalMatch,
	asOf time.Time,
	seed int64,
) (*models.Prediction, error) {
	form1, err := s.estimator.EstimateForm(matchup.Player1, matchup.Surface, history, asOf)
	if err != nil {
		return nil, err
	}
	form2, err := s.estimator.EstimateForm(matchup.Player2, matchup.Surface, history, asOf)
	if err != nil {
		return nil, err
	}

	edge := s.estimator.HeadToHeadEdge(matchup.Player1, matchup.Player2, history, asOf)

	probs, err := model.DeriveServeProbabilities(form1, form2, edge, s.modelCfg)
	if err != nil {
		return nil, err
	}

	simCfg := s.simCfg
	simCfg.Seed = seed
	simStart := time.Now()
	p1Win, err := simulator.Simulate(ctx, probs.P1, probs.P2, matchup.Format, simCfg)
	if err != nil {
		return nil, fmt.Errorf("simulating %s: %w", matchupLabel(matchup), err)
	}
	metrics.RecordSimulationDuration(time.Since(simStart).Seconds())

	favorite, underdog := matchup.Player1, matchup.Player2
	winProb := p1Win
	if p1Win < 0.5 {
		favorite, underdog = matchup.Player2, matchup.Player1
		winProb = 1 - p1Win
	}

	iterations := simCfg.Iterations
	if iterations <= 0 {
		iterations = simulator.DefaultConfig().Iterations
	}

	return &models.Prediction{
		ID:             uuid.New(),
		RunID:          runID,
		MatchDate:      matchup.Date,
		Tournament:     matchup.Tournament,
		Surface:        matchup.Surface,
		Favorite:       favorite,
		Underdog:       underdog,
		WinProbability: winProb,
		FairOdds:       models.FairOddsFromProbability(winProb),
		FatigueAlert:   fatigueAlert(matchup, probs),
		H2HNote:        headToHeadNote(matchup, edge),
		Iterations:     iterations,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// matchupSeed derives a per-matchup seed so a fixed base seed reproduces the
// whole slate deterministically. Seed zero stays zero, which lets the
// simulator self-seed from the clock.
func (s *PredictionService) matchupSeed(index int) int64 {
	if s.simCfg.Seed == 0 {
		return 0
	}
	return s.simCfg.Seed + int64(index)*seedStride
}

// fatigueAlert renders the fatigue warning for a matchup
func fatigueAlert(matchup models.Matchup, probs model.ServeProbabilities) string {
	alert := ""
	if probs.P1Fatigued {
		alert = fmt.Sprintf("Warning: %s Tired", matchup.Player1)
	}
	if probs.P2Fatigued {
		if alert != "" {
			alert += fmt.Sprintf(" %s Tired", matchup.Player2)
		} else {
			alert = fmt.Sprintf("Warning: %s Tired", matchup.Player2)
		}
	}
	return alert
}

// headToHeadNote renders the head-to-head annotation for a matchup
func headToHeadNote(matchup models.Matchup, edge float64) string {
	switch {
	case edge > 0:
		return fmt.Sprintf("%s H2H Edge", matchup.Player1)
	case edge < 0:
		return fmt.Sprintf("%s H2H Edge", matchup.Player2)
	default:
		return "-"
	}
}

// matchupLabel is a compact log label for a matchup
func matchupLabel(m models.Matchup) string {
	return fmt.Sprintf("%s vs %s (%s)", m.Player1, m.Player2, m.Surface)
}
