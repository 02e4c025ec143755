package models

import (
	"strings"
	"time"
)

// Surface represents the court surface a match is played on
type Surface string

// Supported surfaces
const (
	SurfaceHard  Surface = "Hard"
	SurfaceClay  Surface = "Clay"
	SurfaceGrass Surface = "Grass"
)

// ParseSurface normalizes a surface string from an external source.
// Unknown values default to hard court, matching tour scheduling conventions.
func ParseSurface(s string) Surface {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clay":
		return SurfaceClay
	case "grass":
		return SurfaceGrass
	default:
		return SurfaceHard
	}
}

// Equal compares surfaces case-insensitively
func (s Surface) Equal(other Surface) bool {
	return strings.EqualFold(string(s), string(other))
}

// HistoricalMatch represents one completed match from the historical archive.
// Numeric serve statistics are pointers: archive rows frequently omit them and
// a missing value must be excluded from aggregation, never coerced to zero.
type HistoricalMatch struct {
	Date            time.Time `db:"tourney_date" json:"tourney_date" validate:"required"`
	Tournament      string    `db:"tourney_name" json:"tourney_name"`
	Surface         Surface   `db:"surface" json:"surface" validate:"required"`
	WinnerName      string    `db:"winner_name" json:"winner_name" validate:"required"`
	LoserName       string    `db:"loser_name" json:"loser_name" validate:"required"`
	WinnerServePts  *int      `db:"w_svpt" json:"w_svpt"`
	WinnerFirstWon  *int      `db:"w_1st_won" json:"w_1st_won"`
	WinnerSecondWon *int      `db:"w_2nd_won" json:"w_2nd_won"`
	LoserServePts   *int      `db:"l_svpt" json:"l_svpt"`
	LoserFirstWon   *int      `db:"l_1st_won" json:"l_1st_won"`
	LoserSecondWon  *int      `db:"l_2nd_won" json:"l_2nd_won"`
	Minutes         *int      `db:"minutes" json:"minutes"`
}

// ServeLine is one player's serve statistics for a single match
type ServeLine struct {
	Played int
	Won    int
}

// WinnerServeLine returns the winner's serve points played and won, or
// ok=false when any required field is missing.
func (m *HistoricalMatch) WinnerServeLine() (ServeLine, bool) {
	if m.WinnerServePts == nil || m.WinnerFirstWon == nil || m.WinnerSecondWon == nil {
		return ServeLine{}, false
	}
	return ServeLine{Played: *m.WinnerServePts, Won: *m.WinnerFirstWon + *m.WinnerSecondWon}, true
}

// LoserServeLine returns the loser's serve points played and won, or
// ok=false when any required field is missing.
func (m *HistoricalMatch) LoserServeLine() (ServeLine, bool) {
	if m.LoserServePts == nil || m.LoserFirstWon == nil || m.LoserSecondWon == nil {
		return ServeLine{}, false
	}
	return ServeLine{Played: *m.LoserServePts, Won: *m.LoserFirstWon + *m.LoserSecondWon}, true
}

// DurationMinutes returns the match duration, falling back to the given
// default when the archive row has no recorded duration.
func (m *HistoricalMatch) DurationMinutes(fallback int) int {
	if m.Minutes == nil {
		return fallback
	}
	return *m.Minutes
}

// WithinWindow reports whether the match date falls inside the trailing
// window ending at asOf.
func (m *HistoricalMatch) WithinWindow(asOf time.Time, window time.Duration) bool {
	return !m.Date.Before(asOf.Add(-window)) && !m.Date.After(asOf)
}
