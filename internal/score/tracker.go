package score

import (
	"fmt"

	"github.com/mauv0809/osu-autoref/internal/match"
)

// Outcome is the state of the match after a round.
type Outcome int

const (
	Continue Outcome = iota
	Winner
	Tiebreaker
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Winner:
		return "winner"
	case Tiebreaker:
		return "tiebreaker"
	default:
		return "unknown"
	}
}

// Tracker holds the match score.
type Tracker struct {
	points  [2]int
	winning int
}

// WinningScore is the number of rounds needed to take a best-of-N match.
func WinningScore(bestOf int) int {
	return (bestOf + 1) / 2
}

// New creates a tracker for a best-of-N match.
func New(bestOf int) *Tracker {
	return &Tracker{winning: WinningScore(bestOf)}
}

// Winning returns the score that ends the match.
func (t *Tracker) Winning() int { return t.winning }

// Points returns the score of one side.
func (t *Tracker) Points(s match.Side) int {
	if !s.Valid() {
		return 0
	}
	return t.points[s]
}

// Apply records a round. diff is the red aggregate minus the blue aggregate;
// a zero diff is a tie and changes nothing.
func (t *Tracker) Apply(diff int64) (match.Side, bool) {
	switch {
	case diff > 0:
		t.points[match.Red]++
		return match.Red, true
	case diff < 0:
		t.points[match.Blue]++
		return match.Blue, true
	default:
		return match.NoSide, false
	}
}

// Evaluate decides whether the match is over, needs a tiebreaker, or goes on.
func (t *Tracker) Evaluate() (Outcome, match.Side) {
	switch {
	case t.points[match.Red] >= t.winning:
		return Winner, match.Red
	case t.points[match.Blue] >= t.winning:
		return Winner, match.Blue
	case t.points[match.Red] == t.winning-1 && t.points[match.Blue] == t.winning-1:
		return Tiebreaker, match.NoSide
	default:
		return Continue, match.NoSide
	}
}

// Set overrides both counters. Used by referees to correct mistakes.
func (t *Tracker) Set(red, blue int) error {
	if red < 0 || blue < 0 {
		return fmt.Errorf("scores must not be negative: %d-%d", red, blue)
	}
	t.points = [2]int{red, blue}
	return nil
}
