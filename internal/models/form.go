package models

import "time"

// PlayerForm holds a player's aggregated serve and return performance over a
// trailing window. Instances are derived on demand for one (player, surface,
// as-of) query and discarded after use; they are never cached across matchups.
type PlayerForm struct {
	Player        string    `json:"player"`
	Surface       Surface   `json:"surface"`
	AsOf          time.Time `json:"as_of"`
	ServePct      float64   `json:"serve_pct" validate:"gte=0,lte=1"`
	ReturnPct     float64   `json:"return_pct" validate:"gte=0,lte=1"`
	RecentMinutes int       `json:"recent_minutes" validate:"gte=0"`
	MatchCount    int       `json:"match_count"`
}
