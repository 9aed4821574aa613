package qlearn

import "github.com/qlearngo/go-qttt/pkg/ttt"

// Policy selects one of the legal actions for the given state. The training
// flag enables exploration for variants that distinguish the two modes; a
// policy must return MoveIllegal when the legal list is empty.
type Policy interface {
	SelectAction(state ttt.State, legal ttt.MoveList, training bool) ttt.Move
}

// Learner is the optional capability of a policy that learns from its own
// transitions. The trainer feeds each learning player only that player's
// moves, so two learners in one game keep independent value estimates.
type Learner interface {
	Policy
	Update(t Transition)
}

// Transition is produced once per move and consumed once by the learning
// update. There is no replay buffer, learning is purely online.
type Transition struct {
	State     ttt.State
	Action    ttt.Move
	Reward    float64
	NextState ttt.State
	NextLegal ttt.MoveList
	Terminal  bool
}
