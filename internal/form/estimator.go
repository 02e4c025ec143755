// Package form aggregates historical serve and return performance into
// per-player form estimates.
package form

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/simuteknikko/tennis-moneyline/internal/models"
	"github.com/simuteknikko/tennis-moneyline/internal/players"
)

// Estimator derives player form and head-to-head edges from a historical
// match table. It holds no mutable state; every query aggregates fresh.
type Estimator struct {
	cfg      Config
	resolver players.Resolver
	logger   *logrus.Logger
}

// NewEstimator creates a form estimator
func NewEstimator(cfg Config, resolver players.Resolver, logger *logrus.Logger) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid form config: %w", err)
	}
	if resolver == nil {
		return nil, fmt.Errorf("player resolver is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Estimator{cfg: cfg, resolver: resolver, logger: logger}, nil
}

// EstimateForm aggregates serve/return ratios and recent match load for a
// player over the trailing window ending at asOf. Surface-specific rows are
// preferred; if none exist the same window across all surfaces is used.
// Returns models.ErrInsufficientData when no rows match either way.
func (e *Estimator) EstimateForm(player string, surface models.Surface, history []*models.HistoricalMatch, asOf time.Time) (*models.PlayerForm, error) {
	relevant := e.relevantMatches(player, history, asOf, &surface)
	if len(relevant) == 0 {
		// No surface-specific data: fall back to all surfaces
		relevant = e.relevantMatches(player, history, asOf, nil)
	}
	if len(relevant) == 0 {
		return nil, fmt.Errorf("%w: player %q", models.ErrInsufficientData, player)
	}

	var serve, ret models.ServeLine
	for _, m := range relevant {
		won := e.resolver.Matches(m.WinnerName, player)

		// The player's return points are the opponent's serve points: points
		// the opponent failed to win on serve are points the player won
		// returning.
		var own, opp models.ServeLine
		var ownOK, oppOK bool
		if won {
			own, ownOK = m.WinnerServeLine()
			opp, oppOK = m.LoserServeLine()
		} else {
			own, ownOK = m.LoserServeLine()
			opp, oppOK = m.WinnerServeLine()
		}
		if ownOK {
			serve.Played += own.Played
			serve.Won += own.Won
		}
		if oppOK {
			ret.Played += opp.Played
			ret.Won += opp.Played - opp.Won
		}
	}

	// Fatigue minutes accumulate across all surfaces even when the serve
	// aggregation was surface-filtered.
	recentMinutes := 0
	for _, m := range e.relevantMatches(player, history, asOf, nil) {
		if m.WithinWindow(asOf, e.cfg.FatigueWindow) {
			recentMinutes += m.DurationMinutes(e.cfg.DefaultMatchMinutes)
		}
	}

	pf := &models.PlayerForm{
		Player:        player,
		Surface:       surface,
		AsOf:          asOf,
		ServePct:      ratioOrBaseline(serve, e.cfg.BaselineServe),
		ReturnPct:     ratioOrBaseline(ret, e.cfg.BaselineReturn),
		RecentMinutes: recentMinutes,
		MatchCount:    len(relevant),
	}

	e.logger.WithFields(logrus.Fields{
		"player":         e.resolver.Key(player),
		"surface":        surface,
		"matches":        pf.MatchCount,
		"serve_pct":      pf.ServePct,
		"return_pct":     pf.ReturnPct,
		"recent_minutes": pf.RecentMinutes,
	}).Debug("Form estimated")

	return pf, nil
}

// HeadToHeadEdge computes the flat probability edge toward player1 from the
// pair's trailing-window meetings. The thresholds are strict inequalities and
// the magnitude ignores sample size, a deliberate guard against overfitting
// tiny head-to-head samples.
func (e *Estimator) HeadToHeadEdge(player1, player2 string, history []*models.HistoricalMatch, asOf time.Time) float64 {
	wins1, total := 0, 0
	for _, m := range history {
		if !m.WithinWindow(asOf, e.cfg.Window) {
			continue
		}
		p1Won := e.resolver.Matches(m.WinnerName, player1) && e.resolver.Matches(m.LoserName, player2)
		p2Won := e.resolver.Matches(m.WinnerName, player2) && e.resolver.Matches(m.LoserName, player1)
		if !p1Won && !p2Won {
			continue
		}
		total++
		if p1Won {
			wins1++
		}
	}
	if total == 0 {
		return 0
	}

	winPct := float64(wins1) / float64(total)
	switch {
	case winPct > e.cfg.H2HUpperThreshold:
		return e.cfg.H2HEdge
	case winPct < e.cfg.H2HLowerThreshold:
		return -e.cfg.H2HEdge
	default:
		return 0
	}
}

// relevantMatches filters history down to window-matched rows naming the
// player. A nil surface disables surface filtering.
func (e *Estimator) relevantMatches(player string, history []*models.HistoricalMatch, asOf time.Time, surface *models.Surface) []*models.HistoricalMatch {
	var relevant []*models.HistoricalMatch
	for _, m := range history {
		if !m.WithinWindow(asOf, e.cfg.Window) {
			continue
		}
		if surface != nil && !m.Surface.Equal(*surface) {
			continue
		}
		if !e.resolver.Matches(m.WinnerName, player) && !e.resolver.Matches(m.LoserName, player) {
			continue
		}
		relevant = append(relevant, m)
	}
	return relevant
}

// ratioOrBaseline divides won by played, substituting the tour baseline when
// the denominator is zero.
func ratioOrBaseline(line models.ServeLine, baseline float64) float64 {
	if line.Played <= 0 {
		return baseline
	}
	return float64(line.Won) / float64(line.Played)
}
