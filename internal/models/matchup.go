package models

import (
	"fmt"
	"time"
)

// MatchFormat is the number of sets a match is played to
type MatchFormat int

// Supported singles formats
const (
	BestOfThree MatchFormat = 3
	BestOfFive  MatchFormat = 5
)

// NewMatchFormat validates a best-of value. Anything other than 3 or 5 is
// rejected before any simulation starts.
func NewMatchFormat(bestOf int) (MatchFormat, error) {
	switch bestOf {
	case 3:
		return BestOfThree, nil
	case 5:
		return BestOfFive, nil
	default:
		return 0, fmt.Errorf("%w: best-of must be 3 or 5, got %d", ErrInvalidFormat, bestOf)
	}
}

// SetsToWin returns the number of sets required to win the match
func (f MatchFormat) SetsToWin() int {
	return (int(f) + 1) / 2
}

// Valid reports whether the format is a supported singles format
func (f MatchFormat) Valid() bool {
	return f == BestOfThree || f == BestOfFive
}

// Matchup represents one scheduled match from the fixture feed
type Matchup struct {
	Date       time.Time   `json:"date"`
	Tournament string      `json:"tournament"`
	Surface    Surface     `json:"surface"`
	Player1    string      `json:"player1" validate:"required"`
	Player2    string      `json:"player2" validate:"required"`
	Format     MatchFormat `json:"format"`
}
