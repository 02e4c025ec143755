package model

import (
	"math"
	"testing"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

func formWith(serve, ret float64, recentMinutes int) *models.PlayerForm {
	return &models.PlayerForm{ServePct: serve, ReturnPct: ret, RecentMinutes: recentMinutes}
}

func TestDeriveServeProbabilitiesNeutral(t *testing.T) {
	cfg := DefaultConfig()

	// Both players exactly at baseline: outputs equal the baseline
	probs, err := DeriveServeProbabilities(formWith(0.64, 0.36, 0), formWith(0.64, 0.36, 0), 0, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}
	if math.Abs(probs.P1-0.64) > 1e-9 || math.Abs(probs.P2-0.64) > 1e-9 {
		t.Errorf("expected baseline probabilities, got %v / %v", probs.P1, probs.P2)
	}
}

func TestDeriveServeProbabilitiesFormula(t *testing.T) {
	cfg := DefaultConfig()

	// P1: 0.64 + (0.70-0.64) - (0.38-0.36) + 0.02 = 0.70
	// P2: 0.64 + (0.62-0.64) - (0.40-0.36) - 0.02 = 0.56
	probs, err := DeriveServeProbabilities(formWith(0.70, 0.40, 0), formWith(0.62, 0.38, 0), 0.02, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}
	if math.Abs(probs.P1-0.70) > 1e-9 {
		t.Errorf("P1 = %.6f, want 0.70", probs.P1)
	}
	if math.Abs(probs.P2-0.56) > 1e-9 {
		t.Errorf("P2 = %.6f, want 0.56", probs.P2)
	}
}

func TestDeriveServeProbabilitiesClamped(t *testing.T) {
	cfg := DefaultConfig()

	// Absurd inputs must still land inside the configured bounds
	probs, err := DeriveServeProbabilities(formWith(1.0, 1.0, 0), formWith(0.0, 0.0, 0), 0.02, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}
	if probs.P1 < cfg.ClampMin || probs.P1 > cfg.ClampMax {
		t.Errorf("P1 = %v escaped clamp bounds", probs.P1)
	}
	if probs.P2 < cfg.ClampMin || probs.P2 > cfg.ClampMax {
		t.Errorf("P2 = %v escaped clamp bounds", probs.P2)
	}
	if probs.P1 != cfg.ClampMax {
		t.Errorf("P1 = %v, want upper clamp %v", probs.P1, cfg.ClampMax)
	}
	if probs.P2 != cfg.ClampMin {
		t.Errorf("P2 = %v, want lower clamp %v", probs.P2, cfg.ClampMin)
	}
}

func TestDeriveServeProbabilitiesFatigue(t *testing.T) {
	cfg := DefaultConfig()

	rested, err := DeriveServeProbabilities(formWith(0.70, 0.36, 0), formWith(0.64, 0.36, 0), 0, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}
	tired, err := DeriveServeProbabilities(formWith(0.70, 0.36, 200), formWith(0.64, 0.36, 0), 0, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}

	if !tired.P1Fatigued || tired.P2Fatigued {
		t.Errorf("fatigue flags wrong: %+v", tired)
	}
	if tired.P1 >= rested.P1 {
		t.Errorf("fatigue must reduce serve probability: tired %v, rested %v", tired.P1, rested.P1)
	}
	// Penalty hits only the serve component: player 2's probability is untouched
	if tired.P2 != rested.P2 {
		t.Errorf("opponent probability changed by player 1's fatigue: %v vs %v", tired.P2, rested.P2)
	}

	// Exactly at the threshold no penalty applies
	atThreshold, err := DeriveServeProbabilities(formWith(0.70, 0.36, cfg.FatigueThresholdMin), formWith(0.64, 0.36, 0), 0, cfg)
	if err != nil {
		t.Fatalf("DeriveServeProbabilities failed: %v", err)
	}
	if atThreshold.P1Fatigued {
		t.Error("threshold is exclusive; minutes equal to it must not trigger the penalty")
	}
}

func TestDeriveServeProbabilitiesEdgeDirection(t *testing.T) {
	cfg := DefaultConfig()

	base, _ := DeriveServeProbabilities(formWith(0.66, 0.36, 0), formWith(0.66, 0.36, 0), 0, cfg)
	edged, _ := DeriveServeProbabilities(formWith(0.66, 0.36, 0), formWith(0.66, 0.36, 0), 0.02, cfg)

	if edged.P1 <= base.P1 {
		t.Errorf("positive edge must raise P1: %v vs %v", edged.P1, base.P1)
	}
	if edged.P2 >= base.P2 {
		t.Errorf("positive edge must lower P2: %v vs %v", edged.P2, base.P2)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := DefaultConfig()
	bad.BaselineReturn = 0.30 // no longer sums to 1
	if err := bad.Validate(); err == nil {
		t.Error("expected validation error for open baselines")
	}

	inverted := DefaultConfig()
	inverted.ClampMin, inverted.ClampMax = inverted.ClampMax, inverted.ClampMin
	if err := inverted.Validate(); err == nil {
		t.Error("expected validation error for inverted clamp bounds")
	}
}
