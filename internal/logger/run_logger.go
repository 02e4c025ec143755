// Package logger provides prediction-run logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for prediction run events.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new prediction run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogRunStarted logs the start of a prediction run.
func (rl *RunLogger) LogRunStarted(runID, asOf string, scanDays int) {
	rl.WithFields(logrus.Fields{
		"run_id":    runID,
		"as_of":     asOf,
		"scan_days": scanDays,
	}).Info("Prediction run started")
}

// LogInputsLoaded logs the data loaded for a run.
func (rl *RunLogger) LogInputsLoaded(runID string, historyRows, rejectedRows, matchups int) {
	rl.WithFields(logrus.Fields{
		"run_id":        runID,
		"history_rows":  historyRows,
		"rejected_rows": rejectedRows,
		"matchups":      matchups,
	}).Info("Run inputs loaded")
}

// LogMatchupAnalyzed logs a completed matchup analysis.
func (rl *RunLogger) LogMatchupAnalyzed(runID, matchup, favorite string, winProbability float64, iterations int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"run_id":          runID,
		"matchup":         matchup,
		"favorite":        favorite,
		"win_probability": winProbability,
		"iterations":      iterations,
		"analysis_duration_ms": durationMs,
	}).Info("Matchup analysis completed")
}

// LogMatchupSkipped logs a matchup that was skipped.
func (rl *RunLogger) LogMatchupSkipped(runID, matchup, reason string) {
	rl.WithFields(logrus.Fields{
		"run_id":  runID,
		"matchup": matchup,
		"reason":  reason,
	}).Info("Matchup skipped")
}

// LogRunCompleted logs run completion.
func (rl *RunLogger) LogRunCompleted(runID string, predictions, skipped, errors int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"run_id":          runID,
		"predictions":     predictions,
		"skipped":         skipped,
		"errors":          errors,
		"run_duration_ms": durationMs,
	}).Info("Prediction run completed")
}
