package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	InsertBatch(ctx context.Context, predictions []*models.Prediction) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Prediction, error)
	GetPredictionByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Prediction, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prediction, error)
}

// HistoricalMatchRepository defines the interface for archived match data
// access. The archive is append-heavy and queried by player and window.
type HistoricalMatchRepository interface {
	InsertBatch(ctx context.Context, matches []models.HistoricalMatch) error
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.HistoricalMatch, error)
	GetByPlayer(ctx context.Context, name string, start, end time.Time) ([]models.HistoricalMatch, error)
	CountByYear(ctx context.Context, year int) (int, error)
}
