package models

import "errors"

// Custom errors
var (
	ErrInsufficientData = errors.New("no historical data for player in any window")
	ErrInvalidFormat    = errors.New("invalid match format")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
)
