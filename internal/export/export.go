// Package export writes prediction runs to JSON and CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// RunExport is the on-disk shape of one prediction run
type RunExport struct {
	RunID        uuid.UUID            `json:"run_id"`
	GeneratedAt  time.Time            `json:"generated_at"`
	AsOf         time.Time            `json:"as_of"`
	HistoryRows  int                  `json:"history_rows"`
	RejectedRows int                  `json:"rejected_rows"`
	Skipped      int                  `json:"skipped"`
	Predictions  []*models.Prediction `json:"predictions"`
}

// ToJSON writes a run export as indented JSON
func ToJSON(export RunExport, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// csvHeader is the column order of the CSV export
var csvHeader = []string{
	"match_date", "tournament", "surface", "favorite", "underdog",
	"win_probability", "fair_odds", "fatigue_alert", "h2h_note", "iterations",
}

// ToCSV writes the predictions of a run as CSV, one row per matchup in the
// ranked order they were produced.
func ToCSV(export RunExport, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range export.Predictions {
		record := []string{
			p.MatchDate.Format("2006-01-02"),
			p.Tournament,
			string(p.Surface),
			p.Favorite,
			p.Underdog,
			fmt.Sprintf("%.4f", p.WinProbability),
			p.FairOdds.StringFixed(2),
			p.FatigueAlert,
			p.H2HNote,
			fmt.Sprintf("%d", p.Iterations),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write prediction row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
