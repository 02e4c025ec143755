package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/simuteknikko/tennis-moneyline/internal/database"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// PostgresHistoricalMatchRepository implements HistoricalMatchRepository for
// PostgreSQL. It mirrors the archive locally so repeated runs do not refetch
// full season files.
type PostgresHistoricalMatchRepository struct {
	db *database.DB
}

// NewPostgresHistoricalMatchRepository creates a new historical match repository
func NewPostgresHistoricalMatchRepository(db *database.DB) HistoricalMatchRepository {
	return &PostgresHistoricalMatchRepository{db: db}
}

// InsertBatch inserts archive rows using pgx's bulk copy protocol
func (r *PostgresHistoricalMatchRepository) InsertBatch(ctx context.Context, matches []models.HistoricalMatch) error {
	if len(matches) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(matches))
	for i, m := range matches {
		rows[i] = []interface{}{
			m.Date, m.Tournament, string(m.Surface), m.WinnerName, m.LoserName,
			m.WinnerServePts, m.WinnerFirstWon, m.WinnerSecondWon,
			m.LoserServePts, m.LoserFirstWon, m.LoserSecondWon,
			m.Minutes,
		}
	}

	_, err := r.db.GetPool().CopyFrom(ctx,
		pgx.Identifier{"historical_matches"},
		[]string{
			"tourney_date", "tourney_name", "surface", "winner_name", "loser_name",
			"w_svpt", "w_1st_won", "w_2nd_won", "l_svpt", "l_1st_won", "l_2nd_won",
			"minutes",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert historical matches: %w", err)
	}
	return nil
}

// GetByDateRange retrieves archive rows within a date range
func (r *PostgresHistoricalMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.HistoricalMatch, error) {
	query := selectHistoricalMatches + `
		WHERE tourney_date >= $1 AND tourney_date <= $2
		ORDER BY tourney_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical matches by date range: %w", err)
	}
	defer rows.Close()

	return scanHistoricalMatches(rows)
}

// GetByPlayer retrieves rows naming a player on either side of the result,
// using the same loose substring policy as in-memory matching.
func (r *PostgresHistoricalMatchRepository) GetByPlayer(ctx context.Context, name string, start, end time.Time) ([]models.HistoricalMatch, error) {
	query := selectHistoricalMatches + `
		WHERE (winner_name ILIKE '%' || $1 || '%' OR loser_name ILIKE '%' || $1 || '%')
		  AND tourney_date >= $2 AND tourney_date <= $3
		ORDER BY tourney_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, name, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical matches by player: %w", err)
	}
	defer rows.Close()

	return scanHistoricalMatches(rows)
}

// CountByYear counts stored rows for one season
func (r *PostgresHistoricalMatchRepository) CountByYear(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*) FROM historical_matches
		WHERE tourney_date >= $1 AND tourney_date < $2
	`
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)

	var count int
	if err := r.db.GetPool().QueryRow(ctx, query, start, start.AddDate(1, 0, 0)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count historical matches: %w", err)
	}
	return count, nil
}

const selectHistoricalMatches = `
	SELECT tourney_date, tourney_name, surface, winner_name, loser_name,
	       w_svpt, w_1st_won, w_2nd_won, l_svpt, l_1st_won, l_2nd_won, minutes
	FROM historical_matches
`

func scanHistoricalMatches(rows pgx.Rows) ([]models.HistoricalMatch, error) {
	var matches []models.HistoricalMatch
	for rows.Next() {
		var m models.HistoricalMatch
		var surface string
		err := rows.Scan(
			&m.Date, &m.Tournament, &surface, &m.WinnerName, &m.LoserName,
			&m.WinnerServePts, &m.WinnerFirstWon, &m.WinnerSecondWon,
			&m.LoserServePts, &m.LoserFirstWon, &m.LoserSecondWon, &m.Minutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan historical match: %w", err)
		}
		m.Surface = models.ParseSurface(surface)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
