package simulator

import "math/rand"

// State identifies the phase of play a set is in given its game score
type State int

// Set phases
const (
	StateGame State = iota
	StateTieBreak
	StateSetOver
)

// setPhase classifies a game score into the next phase of play. A set is
// over at six games with a two-game lead or at seven games (the
// tie-break-extended case); six games all triggers the tie-break.
func setPhase(p1Games, p2Games int) State {
	if (p1Games >= 6 && p1Games-p2Games >= 2) || p1Games == 7 {
		return StateSetOver
	}
	if (p2Games >= 6 && p2Games-p1Games >= 2) || p2Games == 7 {
		return StateSetOver
	}
	if p1Games == 6 && p2Games == 6 {
		return StateTieBreak
	}
	return StateGame
}

// playGame plays one service game where player 1 wins each point with
// probability pointProb, and reports whether player 1 took the game. A game
// ends at four or more points with a two-point margin.
func playGame(rng *rand.Rand, pointProb float64) bool {
	p1, p2 := 0, 0
	for {
		if p1 >= 4 && p1-p2 >= 2 {
			return true
		}
		if p2 >= 4 && p2-p1 >= 2 {
			return false
		}
		if rng.Float64() < pointProb {
			p1++
		} else {
			p2++
		}
	}
}

// playTieBreak plays a tie-break to seven points with a two-point margin and
// reports whether player 1 won it. Serve alternates after every odd point
// total for the purpose of selecting whose probability applies; the point is
// then credited to player 1 on a win regardless of who served, mirroring the
// model's asymmetric point accounting.
func playTieBreak(rng *rand.Rand, p1Serve, p2Serve float64) bool {
	p1, p2 := 0, 0
	serverIsP1 := true
	for {
		if p1 >= 7 && p1-p2 >= 2 {
			return true
		}
		if p2 >= 7 && p2-p1 >= 2 {
			return false
		}
		prob := p1Serve
		if !serverIsP1 {
			prob = 1 - p2Serve
		}
		if rng.Float64() < prob {
			p1++
		} else {
			p2++
		}
		if (p1+p2)%2 != 0 {
			serverIsP1 = !serverIsP1
		}
	}
}

// playSet plays one set and reports whether player 1 won it. Serve strictly
// alternates by game and player 1 serves the first game of every set.
func playSet(rng *rand.Rand, p1Serve, p2Serve float64) bool {
	p1Games, p2Games := 0, 0
	for {
		switch setPhase(p1Games, p2Games) {
		case StateSetOver:
			return p1Games > p2Games
		case StateTieBreak:
			if playTieBreak(rng, p1Serve, p2Serve) {
				p1Games = 7
			} else {
				p2Games = 7
			}
		case StateGame:
			pointProb := p1Serve
			if (p1Games+p2Games)%2 != 0 {
				pointProb = 1 - p2Serve
			}
			if playGame(rng, pointProb) {
				p1Games++
			} else {
				p2Games++
			}
		}
	}
}

// playMatch plays a full match to setsToWin sets and reports whether player 1
// won it.
func playMatch(rng *rand.Rand, p1Serve, p2Serve float64, setsToWin int) bool {
	p1Sets, p2Sets := 0, 0
	for p1Sets < setsToWin && p2Sets < setsToWin {
		if playSet(rng, p1Serve, p2Serve) {
			p1Sets++
		} else {
			p2Sets++
		}
	}
	return p1Sets == setsToWin
}
