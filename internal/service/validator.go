package service

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// MatchValidator validates historical match rows before they enter form
// aggregation. Archive rows come from scraped CSV exports, so internal
// consistency cannot be assumed.
type MatchValidator struct {
	logger *log.Logger
}

// NewMatchValidator creates a new match validator
func NewMatchValidator(logger *log.Logger) *MatchValidator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MatchValidator{logger: logger}
}

// ValidateMatch validates one historical row for required fields and internal
// consistency. It returns a list of problems; an empty list means the row is
// usable.
func (v *MatchValidator) ValidateMatch(m *models.HistoricalMatch) []string {
	var errors []string

	if m.Date.IsZero() {
		errors = append(errors, "tourney_date is required")
	}
	if m.Date.After(time.Now().Add(24 * time.Hour)) {
		errors = append(errors, "tourney_date lies in the future")
	}
	if m.WinnerName == "" {
		errors = append(errors, "winner_name is required")
	}
	if m.LoserName == "" {
		errors = append(errors, "loser_name is required")
	}
	if m.WinnerName != "" && m.WinnerName == m.LoserName {
		errors = append(errors, "winner and loser are the same player")
	}

	errors = append(errors, validateServeStats("winner", m.WinnerServePts, m.WinnerFirstWon, m.WinnerSecondWon)...)
	errors = append(errors, validateServeStats("loser", m.LoserServePts, m.LoserFirstWon, m.LoserSecondWon)...)

	if m.Minutes != nil && (*m.Minutes <= 0 || *m.Minutes > 720) {
		errors = append(errors, fmt.Sprintf("minutes out of range (1-720), got %d", *m.Minutes))
	}

	return errors
}

// FilterValid drops rows that fail validation, logging a sample of the
// reasons, and reports how many were rejected.
func (v *MatchValidator) FilterValid(matches []models.HistoricalMatch) ([]models.HistoricalMatch, int) {
	valid := make([]models.HistoricalMatch, 0, len(matches))
	rejected := 0
	for i := range matches {
		problems := v.ValidateMatch(&matches[i])
		if len(problems) > 0 {
			rejected++
			if rejected <= 10 {
				v.logger.Printf("Rejected archive row (%s vs %s): %v", matches[i].WinnerName, matches[i].LoserName, problems)
			}
			continue
		}
		valid = append(valid, matches[i])
	}
	if rejected > 10 {
		v.logger.Printf("Rejected %d archive rows in total", rejected)
	}
	return valid, rejected
}

// validateServeStats checks the serve line of one side when present. Partial
// lines are fine (they are excluded from aggregation downstream); present
// values must be non-negative and won points cannot exceed points played.
func validateServeStats(side string, served, firstWon, secondWon *int) []string {
	var errors []string

	for name, val := range map[string]*int{"svpt": served, "1stWon": firstWon, "2ndWon": secondWon} {
		if val != nil && *val < 0 {
			errors = append(errors, fmt.Sprintf("%s %s cannot be negative", side, name))
		}
	}

	if served != nil && firstWon != nil && secondWon != nil {
		if *firstWon+*secondWon > *served {
			errors = append(errors, fmt.Sprintf("%s won more serve points than played (%d > %d)", side, *firstWon+*secondWon, *served))
		}
	}

	return errors
}
