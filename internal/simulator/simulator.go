// Package simulator runs hierarchical Monte Carlo playouts of tennis
// matches: point, game, tie-break, set and match, in that cascade.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// Simulate runs cfg.Iterations independent playouts of a match and returns
// the empirical probability that player 1 wins. p1Serve and p2Serve are
// point-win probabilities while serving; the returner's chance on any point
// is one minus the server's probability, so return skill must already be
// folded in upstream. Iterations are partitioned across cfg.Workers, each
// with a private random source derived from cfg.Seed, and win counts are
// summed, so partition order never changes the result.
func Simulate(ctx context.Context, p1Serve, p2Serve float64, format models.MatchFormat, cfg Config) (float64, error) {
	if !format.Valid() {
		return 0, fmt.Errorf("%w: best-of must be 3 or 5, got %d", models.ErrInvalidFormat, int(format))
	}
	if err := validateProbability(p1Serve); err != nil {
		return 0, fmt.Errorf("player 1 serve probability: %w", err)
	}
	if err := validateProbability(p2Serve); err != nil {
		return 0, fmt.Errorf("player 2 serve probability: %w", err)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid simulation config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	setsToWin := format.SetsToWin()

	if cfg.Workers == 1 {
		rng := rand.New(rand.NewSource(seed))
		wins := runIterations(ctx, rng, p1Serve, p2Serve, setsToWin, cfg.Iterations)
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return float64(wins) / float64(cfg.Iterations), nil
	}

	chunks := splitIterations(cfg.Iterations, cfg.Workers)
	winCounts := make([]int, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for w, n := range chunks {
		rng := rand.New(rand.NewSource(seed + int64(w)))
		iterations := n
		slot := w
		g.Go(func() error {
			winCounts[slot] = runIterations(gctx, rng, p1Serve, p2Serve, setsToWin, iterations)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	wins := 0
	for _, c := range winCounts {
		wins += c
	}
	return float64(wins) / float64(cfg.Iterations), nil
}

// runIterations plays the full cascade iterations times and counts player 1
// wins. The inner loop draws one uniform value per point and touches no
// shared state, so it allocates nothing per iteration.
func runIterations(ctx context.Context, rng *rand.Rand, p1Serve, p2Serve float64, setsToWin, iterations int) int {
	const cancelCheckEvery = 1024

	wins := 0
	for i := 0; i < iterations; i++ {
		if i%cancelCheckEvery == 0 && ctx.Err() != nil {
			return wins
		}
		if playMatch(rng, p1Serve, p2Serve, setsToWin) {
			wins++
		}
	}
	return wins
}

// splitIterations divides iterations into per-worker chunks, spreading the
// remainder over the first workers.
func splitIterations(iterations, workers int) []int {
	chunks := make([]int, workers)
	base := iterations / workers
	extra := iterations % workers
	for w := range chunks {
		chunks[w] = base
		if w < extra {
			chunks[w]++
		}
	}
	return chunks
}

// validateProbability rejects point probabilities that would make a playout
// degenerate. Values at exactly 0 or 1 can deadlock the win-by-two loops.
func validateProbability(p float64) error {
	if p <= 0 || p >= 1 {
		return fmt.Errorf("must lie strictly inside (0, 1), got %v", p)
	}
	return nil
}
