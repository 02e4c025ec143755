// Package model derives point-win-on-serve probabilities from player form.
package model

import (
	"fmt"
	"math"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// Config holds the serve-model parameters. Passed in explicitly so tests can
// exercise alternative baselines, clamps and fatigue settings.
type Config struct {
	BaselineServe      float64 // tour-average point-win probability on serve
	BaselineReturn     float64 // complement baseline for the returner
	FatigueThresholdMin int    // trailing-week minutes above which the penalty applies
	FatiguePenalty     float64 // multiplier applied to a tired player's serve ratio
	ClampMin           float64 // lower bound on the derived probability
	ClampMax           float64 // upper bound on the derived probability
}

// DefaultConfig returns tour-calibrated defaults
func DefaultConfig() Config {
	return Config{
		BaselineServe:       0.64,
		BaselineReturn:      0.36,
		FatigueThresholdMin: 180,
		FatiguePenalty:      0.92,
		ClampMin:            0.40,
		ClampMax:            0.85,
	}
}

// Validate validates model parameters
func (c Config) Validate() error {
	if c.BaselineServe <= 0 || c.BaselineServe >= 1 {
		return fmt.Errorf("baseline serve must be in (0, 1)")
	}
	if c.BaselineReturn <= 0 || c.BaselineReturn >= 1 {
		return fmt.Errorf("baseline return must be in (0, 1)")
	}
	if math.Abs(c.BaselineServe+c.BaselineReturn-1) > 1e-9 {
		return fmt.Errorf("baselines must sum to 1 for a closed two-outcome point")
	}
	if c.FatiguePenalty <= 0 || c.FatiguePenalty > 1 {
		return fmt.Errorf("fatigue penalty must be in (0, 1]")
	}
	if c.ClampMin >= c.ClampMax {
		return fmt.Errorf("clamp bounds inverted")
	}
	if c.ClampMin < 0 || c.ClampMax > 1 {
		return fmt.Errorf("clamp bounds must lie in [0, 1]")
	}
	return nil
}

// ServeProbabilities is the model output for one matchup
type ServeProbabilities struct {
	P1         float64
	P2         float64
	P1Fatigued bool
	P2Fatigued bool
}

// DeriveServeProbabilities combines both players' form, the tour baseline,
// fatigue and the head-to-head edge into two point-win-on-serve
// probabilities. The edge is directional: added for player 1, subtracted for
// player 2. Fatigue degrades only the tired player's serve component. Both
// outputs are clamped to the configured plausible professional range no
// matter how extreme the inputs.
func DeriveServeProbabilities(form1, form2 *models.PlayerForm, h2hEdge float64, cfg Config) (ServeProbabilities, error) {
	if form1 == nil || form2 == nil {
		return ServeProbabilities{}, fmt.Errorf("both player forms are required")
	}
	if err := cfg.Validate(); err != nil {
		return ServeProbabilities{}, fmt.Errorf("invalid model config: %w", err)
	}

	out := ServeProbabilities{
		P1Fatigued: form1.RecentMinutes > cfg.FatigueThresholdMin,
		P2Fatigued: form2.RecentMinutes > cfg.FatigueThresholdMin,
	}

	serve1 := form1.ServePct
	if out.P1Fatigued {
		serve1 *= cfg.FatiguePenalty
	}
	serve2 := form2.ServePct
	if out.P2Fatigued {
		serve2 *= cfg.FatiguePenalty
	}

	p1 := cfg.BaselineServe + (serve1 - cfg.BaselineServe) - (form2.ReturnPct - cfg.BaselineReturn) + h2hEdge
	p2 := cfg.BaselineServe + (serve2 - cfg.BaselineServe) - (form1.ReturnPct - cfg.BaselineReturn) - h2hEdge

	out.P1 = clamp(p1, cfg.ClampMin, cfg.ClampMax)
	out.P2 = clamp(p2, cfg.ClampMin, cfg.ClampMax)
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
