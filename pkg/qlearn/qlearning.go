package qlearn

import (
	"math/rand"

	"github.com/qlearngo/go-qttt/pkg/ttt"
)

// Default hyperparameters for the Q-learning policy.
const (
	DefaultAlpha   = 0.01
	DefaultGamma   = 0.96
	DefaultEpsilon = 0.1
)

// QLearningPolicy selects actions from a value table. During training it
// explores epsilon-greedily, during evaluation it is purely greedy so the
// learned policy can be measured without exploration noise.
type QLearningPolicy struct {
	Table *QTable

	Alpha   float64 // learning rate
	Gamma   float64 // discount factor
	Epsilon float64 // exploration rate

	rng *rand.Rand
}

// NewQLearningPolicy wraps the given table, a nil table starts empty.
func NewQLearningPolicy(table *QTable) *QLearningPolicy {
	if table == nil {
		table = NewQTable()
	}
	return &QLearningPolicy{
		Table:   table,
		Alpha:   DefaultAlpha,
		Gamma:   DefaultGamma,
		Epsilon: DefaultEpsilon,
		rng:     newRand(),
	}
}

func (p *QLearningPolicy) WithRand(r *rand.Rand) *QLearningPolicy {
	if r != nil {
		p.rng = r
	}
	return p
}

func (p *QLearningPolicy) SetAlpha(alpha float64) *QLearningPolicy {
	p.Alpha = alpha
	return p
}

func (p *QLearningPolicy) SetGamma(gamma float64) *QLearningPolicy {
	p.Gamma = gamma
	return p
}

func (p *QLearningPolicy) SetEpsilon(epsilon float64) *QLearningPolicy {
	p.Epsilon = epsilon
	return p
}

// SelectAction picks epsilon-greedily among the legal actions when training,
// and greedily otherwise. Ties are broken by the lowest action index, which
// keeps greedy play reproducible.
func (p *QLearningPolicy) SelectAction(state ttt.State, legal ttt.MoveList, training bool) ttt.Move {
	if legal.Size == 0 {
		return ttt.MoveIllegal
	}
	if training && p.rng.Float64() < p.Epsilon {
		return legal.Moves[p.rng.Intn(int(legal.Size))]
	}

	best := legal.Moves[0]
	bestVal := p.Table.Get(state, best)
	for _, mv := range legal.Slice()[1:] {
		if v := p.Table.Get(state, mv); v > bestVal {
			best, bestVal = mv, v
		}
	}
	return best
}

// Update applies the temporal-difference rule
//
//	Q(s,a) <- Q(s,a) + alpha*(r + gamma*max Q(s',a') - Q(s,a))
//
// with the max term taken over the legal actions of the next state, or 0
// when the transition is terminal (no bootstrap past the end of the game).
func (p *QLearningPolicy) Update(t Transition) {
	current := p.Table.Get(t.State, t.Action)
	target := t.Reward
	if !t.Terminal {
		target += p.Gamma * p.Table.Max(t.NextState, t.NextLegal)
	}
	p.Table.Set(t.State, t.Action, current+p.Alpha*(target-current))
}
