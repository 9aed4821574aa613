package trainer

import "gonum.org/v1/gonum/stat"

// Checkpoint records one evaluation pause: the learned policy played
// EvalEpisodes greedy games against a random opponent in each seat.
type Checkpoint struct {
	Episode  int   `json:"episode"`
	AsCross  Stats `json:"as_cross"`
	AsCircle Stats `json:"as_circle"`
}

// History is the ordered list of evaluation checkpoints of one run.
type History []Checkpoint

// TieWinRates extracts the tie+win rate series for the given seat.
func (h History) TieWinRates(asCross bool) []float64 {
	rates := make([]float64, len(h))
	for i, cp := range h {
		if asCross {
			rates[i] = cp.AsCross.TieWinRate()
		} else {
			rates[i] = cp.AsCircle.TieWinRate()
		}
	}
	return rates
}

// Smoothed computes the running average of a rate series over the given
// window, for readable learning curves over noisy evaluation samples.
func Smoothed(series []float64, window int) []float64 {
	if window <= 1 || window > len(series) {
		out := make([]float64, len(series))
		copy(out, series)
		return out
	}

	out := make([]float64, 0, len(series)-window+1)
	for i := 0; i+window <= len(series); i++ {
		out = append(out, stat.Mean(series[i:i+window], nil))
	}
	return out
}
