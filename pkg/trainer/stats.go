package trainer

import "github.com/qlearngo/go-qttt/pkg/ttt"

// Outcome of one complete episode, from the first player's perspective.
type Outcome int

const (
	OutcomeDraw      Outcome = 0
	OutcomeCrossWin  Outcome = 1
	OutcomeCircleWin Outcome = -1
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCrossWin:
		return "cross win"
	case OutcomeCircleWin:
		return "circle win"
	}
	return "draw"
}

// outcomeOf derives the episode outcome from terminal board inspection.
func outcomeOf(termination ttt.Termination) Outcome {
	switch termination {
	case ttt.TerminationCrossWon:
		return OutcomeCrossWin
	case ttt.TerminationCircleWon:
		return OutcomeCircleWin
	}
	return OutcomeDraw
}

// Stats tallies game results from the perspective of one tracked player.
type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func (s *Stats) Total() int {
	return s.Wins + s.Losses + s.Draws
}

// record tallies the given outcome, with the tracked player seated as
// 'seat' (Cross or Circle).
func (s *Stats) record(outcome Outcome, seat ttt.Cell) {
	switch {
	case outcome == OutcomeDraw:
		s.Draws++
	case (outcome == OutcomeCrossWin) == (seat == ttt.Cross):
		s.Wins++
	default:
		s.Losses++
	}
}

func (s Stats) WinRate() float64 {
	return s.rate(s.Wins)
}

func (s Stats) LossRate() float64 {
	return s.rate(s.Losses)
}

func (s Stats) TieRate() float64 {
	return s.rate(s.Draws)
}

// TieWinRate is the fraction of games not lost, the headline number for an
// agent playing a solved game against a random opponent.
func (s Stats) TieWinRate() float64 {
	return s.rate(s.Wins + s.Draws)
}

func (s Stats) rate(n int) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
