package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prediction is the final per-matchup output: the favorite's win probability
// with betting-market framing. Immutable once produced.
type Prediction struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	RunID          uuid.UUID       `db:"run_id" json:"run_id"`
	MatchDate      time.Time       `db:"match_date" json:"match_date"`
	Tournament     string          `db:"tournament" json:"tournament"`
	Surface        Surface         `db:"surface" json:"surface"`
	Favorite       string          `db:"favorite" json:"favorite" validate:"required"`
	Underdog       string          `db:"underdog" json:"underdog" validate:"required"`
	WinProbability float64         `db:"win_probability" json:"win_probability" validate:"gte=0,lte=1"`
	FairOdds       decimal.Decimal `db:"fair_odds" json:"fair_odds"`
	FatigueAlert   string          `db:"fatigue_alert" json:"fatigue_alert"`
	H2HNote        string          `db:"h2h_note" json:"h2h_note"`
	Iterations     int             `db:"iterations" json:"iterations"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// FairOddsFromProbability converts a win probability into decimal fair odds.
// Zero probability yields zero odds rather than a division blow-up.
func FairOddsFromProbability(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(1.0 / p).Round(2)
}
