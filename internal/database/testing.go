package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/simuteknikko/tennis-moneyline/internal/config"
)

// SetupTestDB creates a test database connection and ensures the schema.
// Tests calling this must be skipped when TENNIS_MONEYLINE_TEST_DB is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("TENNIS_MONEYLINE_TEST_DB") == "" {
		t.Skip("integration test - set TENNIS_MONEYLINE_TEST_DB to run")
	}

	cfg, err := config.Load(os.Getenv("TENNIS_MONEYLINE_TEST_DB"))
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
