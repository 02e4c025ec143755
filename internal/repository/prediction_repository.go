package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/simuteknikko/tennis-moneyline/internal/database"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert inserts a single prediction
func (r *PostgresPredictionRepository) Insert(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, run_id, match_date, tournament, surface, favorite, underdog,
		                         win_probability, fair_odds, fatigue_alert, h2h_note, iterations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		p.ID, p.RunID, p.MatchDate, p.Tournament, p.Surface, p.Favorite, p.Underdog,
		p.WinProbability, p.FairOdds, p.FatigueAlert, p.H2HNote, p.Iterations, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch inserts predictions in a single transaction
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO predictions (id, run_id, match_date, tournament, surface, favorite, underdog,
		                         win_probability, fair_odds, fatigue_alert, h2h_note, iterations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for _, p := range predictions {
		if _, err := tx.Exec(ctx, query,
			p.ID, p.RunID, p.MatchDate, p.Tournament, p.Surface, p.Favorite, p.Underdog,
			p.WinProbability, p.FairOdds, p.FatigueAlert, p.H2HNote, p.Iterations, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert prediction batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prediction batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all predictions of one run, strongest favorite first
func (r *PostgresPredictionRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Prediction, error) {
	query := selectPredictions + `
		WHERE run_id = $1
		ORDER BY win_probability DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by run: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetRecent retrieves the most recently created predictions
func (r *PostgresPredictionRepository) GetRecent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	query := selectPredictions + `
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByDateRange retrieves predictions for matches within a date range
func (r *PostgresPredictionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prediction, error) {
	query := selectPredictions + `
		WHERE match_date >= $1 AND match_date <= $2
		ORDER BY match_date ASC, win_probability DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date range: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

const selectPredictions = `
	SELECT id, run_id, match_date, tournament, surface, favorite, underdog,
	       win_probability, fair_odds, fatigue_alert, h2h_note, iterations, created_at
	FROM predictions
`

func scanPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		err := rows.Scan(
			&p.ID, &p.RunID, &p.MatchDate, &p.Tournament, &p.Surface, &p.Favorite, &p.Underdog,
			&p.WinProbability, &p.FairOdds, &p.FatigueAlert, &p.H2HNote, &p.Iterations, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// GetPredictionByID retrieves a single prediction
func (r *PostgresPredictionRepository) GetPredictionByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := selectPredictions + ` WHERE id = $1`

	p := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&p.ID, &p.RunID, &p.MatchDate, &p.Tournament, &p.Surface, &p.Favorite, &p.Underdog,
		&p.WinProbability, &p.FairOdds, &p.FatigueAlert, &p.H2HNote, &p.Iterations, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return p, nil
}
