package datasource

import (
	"context"
	"time"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// HistoryProvider fetches completed historical matches from an external
// archive.
type HistoryProvider interface {
	// FetchHistory retrieves all completed matches for the given seasons
	FetchHistory(ctx context.Context, years []int) ([]models.HistoricalMatch, error)

	// Name returns the name of the data source
	Name() string
}

// ScheduleProvider fetches upcoming scheduled matchups.
type ScheduleProvider interface {
	// FetchUpcoming scans forward from the given date, up to scanDays days,
	// and returns the matchups of the first day that has any scheduled play
	FetchUpcoming(ctx context.Context, from time.Time, scanDays int) ([]models.Matchup, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
