package qlearn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/qlearngo/go-qttt/pkg/ttt"
)

func TestUpdateTerminalTransition(t *testing.T) {
	p := NewQLearningPolicy(nil).SetAlpha(0.5).SetGamma(0.9)
	state := ttt.NewPosition().Encode()

	p.Update(Transition{State: state, Action: 4, Reward: 1, Terminal: true})

	if v := p.Table.Get(state, 4); v != 0.5 {
		t.Fatalf("Q(s,a) = %v after terminal update, want 0.5", v)
	}

	// Second identical update moves halfway towards the target of 1.
	p.Update(Transition{State: state, Action: 4, Reward: 1, Terminal: true})
	if v := p.Table.Get(state, 4); v != 0.75 {
		t.Fatalf("Q(s,a) = %v after second update, want 0.75", v)
	}
}

func TestUpdateBootstrapsFromNextState(t *testing.T) {
	p := NewQLearningPolicy(nil).SetAlpha(0.5).SetGamma(0.9)

	pos := ttt.NewPosition()
	state := pos.Encode()
	if _, err := pos.Step(0); err != nil {
		t.Fatal(err)
	}
	next := pos.Encode()
	nextLegal := pos.LegalActions()

	p.Table.Set(next, 4, 0.8)
	p.Table.Set(next, 8, 0.2)

	p.Update(Transition{
		State:     state,
		Action:    0,
		Reward:    0,
		NextState: next,
		NextLegal: nextLegal,
		Terminal:  false,
	})

	// target = 0 + 0.9*0.8, update = 0.5*target
	want := 0.5 * 0.9 * 0.8
	if v := p.Table.Get(state, 0); math.Abs(v-want) > 1e-12 {
		t.Fatalf("Q(s,a) = %v, want %v", v, want)
	}
}

func TestGreedySelection(t *testing.T) {
	p := NewQLearningPolicy(nil).SetEpsilon(1.0) // must be ignored outside training
	pos := ttt.NewPosition()
	state := pos.Encode()
	legal := pos.LegalActions()

	// Empty table: all values tie at 0, lowest index wins.
	if mv := p.SelectAction(state, legal, false); mv != 0 {
		t.Fatalf("tie-break selected %d, want 0", mv)
	}

	p.Table.Set(state, 6, 0.3)
	if mv := p.SelectAction(state, legal, false); mv != 6 {
		t.Fatalf("selected %d, want 6", mv)
	}

	// An equal value on a later index must not displace the earlier one.
	p.Table.Set(state, 8, 0.3)
	if mv := p.SelectAction(state, legal, false); mv != 6 {
		t.Fatalf("selected %d, want 6 (lowest of the tied)", mv)
	}

	p.Table.Set(state, 2, 0.9)
	for i := 0; i < 100; i++ {
		if mv := p.SelectAction(state, legal, false); mv != 2 {
			t.Fatalf("greedy selection is not deterministic: got %d", mv)
		}
	}
}

func TestSelectActionNoLegalMoves(t *testing.T) {
	p := NewQLearningPolicy(nil)
	if mv := p.SelectAction("3/3/3 x", ttt.MoveList{}, true); mv != ttt.MoveIllegal {
		t.Fatalf("selected %d from empty legal list", mv)
	}
}

func TestEpsilonOneIsUniform(t *testing.T) {
	p := NewQLearningPolicy(nil).SetEpsilon(1.0).WithRand(rand.New(rand.NewSource(42)))
	pos := ttt.NewPosition()
	state := pos.Encode()
	legal := pos.LegalActions()

	// Bias the table hard: uniform exploration must ignore it.
	p.Table.Set(state, 4, 100)

	const trials = 9000
	counts := [ttt.NumCells]int{}
	for i := 0; i < trials; i++ {
		mv := p.SelectAction(state, legal, true)
		if mv >= ttt.NumCells {
			t.Fatalf("trial %d: illegal move %d", i, mv)
		}
		counts[mv]++
	}

	// Expected 1000 per cell, sd ~30. A 250 margin is well past 8 sigma.
	for mv, n := range counts {
		if n < 750 || n > 1250 {
			t.Fatalf("cell %d chosen %d times out of %d, expected ~%d", mv, n, trials, trials/ttt.NumCells)
		}
	}
}

func TestRandomPolicyUniform(t *testing.T) {
	p := NewRandomPolicy().WithRand(rand.New(rand.NewSource(5)))
	pos := ttt.NewPosition()
	if _, err := pos.Step(4); err != nil {
		t.Fatal(err)
	}
	state := pos.Encode()
	legal := pos.LegalActions()

	counts := map[ttt.Move]int{}
	for i := 0; i < 8000; i++ {
		mv := p.SelectAction(state, legal, false)
		if !legal.Contains(mv) {
			t.Fatalf("illegal move %d", mv)
		}
		counts[mv]++
	}
	for _, mv := range legal.Slice() {
		if n := counts[mv]; n < 700 || n > 1300 {
			t.Fatalf("cell %d chosen %d times, expected ~1000", mv, n)
		}
	}
}
