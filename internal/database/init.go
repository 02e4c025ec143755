package database

import (
	"context"
	"fmt"
)

// schema holds the tables the prediction engine persists to. Serve statistic
// columns are nullable because the archive frequently omits them.
const schema = `
CREATE TABLE IF NOT EXISTS historical_matches (
	id BIGSERIAL PRIMARY KEY,
	tourney_date DATE NOT NULL,
	tourney_name TEXT NOT NULL DEFAULT '',
	surface TEXT NOT NULL,
	winner_name TEXT NOT NULL,
	loser_name TEXT NOT NULL,
	w_svpt INT,
	w_1st_won INT,
	w_2nd_won INT,
	l_svpt INT,
	l_1st_won INT,
	l_2nd_won INT,
	minutes INT
);

CREATE INDEX IF NOT EXISTS idx_historical_matches_date ON historical_matches (tourney_date);
CREATE INDEX IF NOT EXISTS idx_historical_matches_winner ON historical_matches (winner_name);
CREATE INDEX IF NOT EXISTS idx_historical_matches_loser ON historical_matches (loser_name);

CREATE TABLE IF NOT EXISTS predictions (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL,
	match_date TIMESTAMPTZ NOT NULL,
	tournament TEXT NOT NULL DEFAULT '',
	surface TEXT NOT NULL,
	favorite TEXT NOT NULL,
	underdog TEXT NOT NULL,
	win_probability DOUBLE PRECISION NOT NULL,
	fair_odds NUMERIC(8, 2) NOT NULL,
	fatigue_alert TEXT NOT NULL DEFAULT '',
	h2h_note TEXT NOT NULL DEFAULT '',
	iterations INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions (run_id);
CREATE INDEX IF NOT EXISTS idx_predictions_match_date ON predictions (match_date);
`

// EnsureSchema creates the engine's tables and indexes if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
