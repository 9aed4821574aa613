package qlearn

import (
	"math/rand"

	"github.com/qlearngo/go-qttt/pkg/ttt"
)

// RandomPolicy samples uniformly from the legal actions. It is stateless and
// ignores the training flag.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{rng: newRand()}
}

func (p *RandomPolicy) WithRand(r *rand.Rand) *RandomPolicy {
	if r != nil {
		p.rng = r
	}
	return p
}

func (p *RandomPolicy) SelectAction(_ ttt.State, legal ttt.MoveList, _ bool) ttt.Move {
	if legal.Size == 0 {
		return ttt.MoveIllegal
	}
	return legal.Moves[p.rng.Intn(int(legal.Size))]
}
