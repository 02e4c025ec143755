package repository

import (
	"fmt"

	"github.com/simuteknikko/tennis-moneyline/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Prediction      PredictionRepository
	HistoricalMatch HistoricalMatchRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Prediction:      NewPostgresPredictionRepository(db),
		HistoricalMatch: NewPostgresHistoricalMatchRepository(db),
	}, nil
}
