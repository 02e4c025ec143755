package form

import (
	"fmt"
	"time"
)

// Config holds form estimation parameters. All values are explicit so tests
// can exercise alternative windows and baselines.
type Config struct {
	Window              time.Duration // trailing history window
	FatigueWindow       time.Duration // trailing window for match-load minutes
	BaselineServe       float64       // tour-average serve-points-won ratio
	BaselineReturn      float64       // tour-average return-points-won ratio
	DefaultMatchMinutes int           // duration substitute for rows missing minutes
	H2HUpperThreshold   float64       // win fraction above which player 1 gets the edge
	H2HLowerThreshold   float64       // win fraction below which player 2 gets the edge
	H2HEdge             float64       // flat edge magnitude
}

// DefaultConfig returns tour-calibrated defaults
func DefaultConfig() Config {
	return Config{
		Window:              52 * 7 * 24 * time.Hour,
		FatigueWindow:       7 * 24 * time.Hour,
		BaselineServe:       0.64,
		BaselineReturn:      0.36,
		DefaultMatchMinutes: 90,
		H2HUpperThreshold:   0.66,
		H2HLowerThreshold:   0.34,
		H2HEdge:             0.02,
	}
}

// Validate validates estimation parameters
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("history window must be positive")
	}
	if c.FatigueWindow <= 0 || c.FatigueWindow > c.Window {
		return fmt.Errorf("fatigue window must be positive and within the history window")
	}
	if c.BaselineServe <= 0 || c.BaselineServe >= 1 {
		return fmt.Errorf("baseline serve ratio must be in (0, 1)")
	}
	if c.BaselineReturn <= 0 || c.BaselineReturn >= 1 {
		return fmt.Errorf("baseline return ratio must be in (0, 1)")
	}
	if c.H2HLowerThreshold >= c.H2HUpperThreshold {
		return fmt.Errorf("h2h lower threshold must be below upper threshold")
	}
	if c.H2HEdge < 0 {
		return fmt.Errorf("h2h edge cannot be negative")
	}
	if c.DefaultMatchMinutes <= 0 {
		return fmt.Errorf("default match minutes must be positive")
	}
	return nil
}
