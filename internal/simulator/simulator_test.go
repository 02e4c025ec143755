package simulator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

func simulate(t *testing.T, p1, p2 float64, format models.MatchFormat, cfg Config) float64 {
	t.Helper()
	prob, err := Simulate(context.Background(), p1, p2, format, cfg)
	if err != nil {
		t.Fatalf("Simulate(%v, %v) failed: %v", p1, p2, err)
	}
	return prob
}

func TestSimulateInvalidFormat(t *testing.T) {
	_, err := Simulate(context.Background(), 0.65, 0.60, models.MatchFormat(4), DefaultConfig())
	if !errors.Is(err, models.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestSimulateRejectsDegenerateProbabilities(t *testing.T) {
	for _, p := range []float64{0, 1, -0.2, 1.3} {
		if _, err := Simulate(context.Background(), p, 0.6, models.BestOfThree, DefaultConfig()); err == nil {
			t.Errorf("expected error for p1 serve probability %v", p)
		}
		if _, err := Simulate(context.Background(), 0.6, p, models.BestOfThree, DefaultConfig()); err == nil {
			t.Errorf("expected error for p2 serve probability %v", p)
		}
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	cfg := Config{Iterations: 10000, Workers: 1, Seed: 42}

	first := simulate(t, 0.65, 0.60, models.BestOfThree, cfg)
	second := simulate(t, 0.65, 0.60, models.BestOfThree, cfg)
	if first != second {
		t.Errorf("same seed produced %v then %v", first, second)
	}
}

func TestSimulateDeterministicAcrossWorkerRuns(t *testing.T) {
	cfg := Config{Iterations: 10000, Workers: 4, Seed: 7}

	first := simulate(t, 0.68, 0.62, models.BestOfFive, cfg)
	second := simulate(t, 0.68, 0.62, models.BestOfFive, cfg)
	if first != second {
		t.Errorf("same seed and worker count produced %v then %v", first, second)
	}
}

func TestSimulateSymmetry(t *testing.T) {
	cfg := Config{Iterations: 100000, Workers: 4, Seed: 11}

	prob := simulate(t, 0.64, 0.64, models.BestOfThree, cfg)
	if math.Abs(prob-0.5) > 0.01 {
		t.Errorf("identical players should split matches evenly, got %v", prob)
	}
}

func TestSimulateMonotonicity(t *testing.T) {
	cfg := Config{Iterations: 50000, Workers: 2, Seed: 13}

	dominant := simulate(t, 0.85, 0.40, models.BestOfThree, cfg)
	even := simulate(t, 0.60, 0.60, models.BestOfThree, cfg)
	if dominant <= even {
		t.Errorf("larger serve advantage must raise win probability: %v vs %v", dominant, even)
	}
	if dominant < 0.95 {
		t.Errorf("maximal advantage should be near-certain victory, got %v", dominant)
	}
}

func TestSimulateBestOfFiveAmplifiesEdge(t *testing.T) {
	cfg := Config{Iterations: 100000, Workers: 4, Seed: 17}

	bo3 := simulate(t, 0.70, 0.60, models.BestOfThree, cfg)
	bo5 := simulate(t, 0.70, 0.60, models.BestOfFive, cfg)
	if bo5 <= bo3 {
		t.Errorf("longer format must favor the stronger player: bo5 %v vs bo3 %v", bo5, bo3)
	}
}

func TestSimulateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, 0.65, 0.60, models.BestOfThree, Config{Iterations: 1000000, Workers: 1, Seed: 1})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestSplitIterations(t *testing.T) {
	chunks := splitIterations(10, 4)
	want := []int{3, 3, 2, 2}
	total := 0
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunk %d = %d, want %d", i, c, want[i])
		}
		total += c
	}
	if total != 10 {
		t.Errorf("chunks sum to %d, want 10", total)
	}
}
