package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/simuteknikko/tennis-moneyline/internal/database"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// These tests run only against a live database; SetupTestDB skips otherwise.

func TestPredictionRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runID := uuid.New()
	predictions := []*models.Prediction{
		{
			ID:             uuid.New(),
			RunID:          runID,
			MatchDate:      time.Now().Add(24 * time.Hour).UTC(),
			Tournament:     "us-open",
			Surface:        models.SurfaceHard,
			Favorite:       "Jannik Sinner",
			Underdog:       "Carlos Alcaraz",
			WinProbability: 0.66,
			FairOdds:       models.FairOddsFromProbability(0.66),
			H2HNote:        "-",
			Iterations:     10000,
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.New(),
			RunID:          runID,
			MatchDate:      time.Now().Add(24 * time.Hour).UTC(),
			Tournament:     "us-open",
			Surface:        models.SurfaceHard,
			Favorite:       "Novak Djokovic",
			Underdog:       "Somebody Else",
			WinProbability: 0.74,
			FairOdds:       models.FairOddsFromProbability(0.74),
			H2HNote:        "Novak Djokovic H2H Edge",
			Iterations:     10000,
			CreatedAt:      time.Now().UTC(),
		},
	}

	if err := repos.Prediction.InsertBatch(ctx, predictions); err != nil {
		t.Fatalf("failed to insert predictions: %v", err)
	}

	got, err := repos.Prediction.GetByRunID(ctx, runID)
	if err != nil {
		t.Fatalf("failed to retrieve predictions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(got))
	}
	// Run retrieval orders by win probability descending
	if got[0].Favorite != "Novak Djokovic" {
		t.Errorf("expected strongest favorite first, got %q", got[0].Favorite)
	}

	byID, err := repos.Prediction.GetPredictionByID(ctx, predictions[0].ID)
	if err != nil {
		t.Fatalf("failed to retrieve prediction by id: %v", err)
	}
	if byID.Favorite != predictions[0].Favorite {
		t.Errorf("expected favorite %q, got %q", predictions[0].Favorite, byID.Favorite)
	}

	if _, err := repos.Prediction.GetPredictionByID(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown id, got %v", err)
	}
}

func TestHistoricalMatchRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	served, won := 80, 52
	matches := []models.HistoricalMatch{
		{
			Date:           time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			Tournament:     "Rome Masters",
			Surface:        models.SurfaceClay,
			WinnerName:     "Carlos Alcaraz",
			LoserName:      "Casper Ruud",
			WinnerServePts: &served,
			WinnerFirstWon: &won,
		},
	}

	if err := repos.HistoricalMatch.InsertBatch(ctx, matches); err != nil {
		t.Fatalf("failed to insert matches: %v", err)
	}

	got, err := repos.HistoricalMatch.GetByPlayer(ctx, "Alcaraz",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("failed to retrieve matches: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one match for Alcaraz")
	}
	if got[0].WinnerSecondWon != nil {
		t.Error("missing serve statistics must round-trip as nil")
	}

	count, err := repos.HistoricalMatch.CountByYear(ctx, 2026)
	if err != nil {
		t.Fatalf("failed to count matches: %v", err)
	}
	if count == 0 {
		t.Error("expected a nonzero 2026 row count")
	}
}
