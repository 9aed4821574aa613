package trainer

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
	"github.com/qlearngo/go-qttt/pkg/ttt"
)

// CheckpointRecorder receives evaluation checkpoints as they happen, e.g.
// a storage.RunLog. A recording failure aborts the run.
type CheckpointRecorder interface {
	RecordCheckpoint(cp Checkpoint) error
}

// Totals are the raw training-episode outcomes of a run.
type Totals struct {
	CrossWins  int `json:"cross_wins"`
	CircleWins int `json:"circle_wins"`
	Draws      int `json:"draws"`
}

// Trainer drives repeated episodes between two policy instances, applying
// the TD update after each transition of every learning player, and
// periodically pauses to evaluate against a random opponent with
// exploration disabled. Execution is strictly sequential, one episode runs
// to completion before the next begins.
type Trainer struct {
	cfg      *Config
	pos      *ttt.Position
	cross    qlearn.Policy
	circle   qlearn.Policy
	totals   Totals
	history  History
	recorder CheckpointRecorder
	log      zerolog.Logger
	evalRng  *rand.Rand
}

// New wires two policies to a fresh environment. Hyperparameters from the
// config are pushed into any Q-learning policy instance.
func New(cfg *Config, cross, circle qlearn.Policy) *Trainer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, p := range []qlearn.Policy{cross, circle} {
		if ql, ok := p.(*qlearn.QLearningPolicy); ok {
			ql.SetAlpha(cfg.Alpha).SetGamma(cfg.Gamma).SetEpsilon(cfg.Epsilon)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = qlearn.SeedGeneratorFn()
	}

	return &Trainer{
		cfg:     cfg,
		pos:     ttt.NewPosition(),
		cross:   cross,
		circle:  circle,
		log:     zerolog.Nop(),
		evalRng: rand.New(rand.NewSource(seed)),
	}
}

func (t *Trainer) WithLogger(log zerolog.Logger) *Trainer {
	t.log = log
	return t
}

func (t *Trainer) WithRecorder(r CheckpointRecorder) *Trainer {
	t.recorder = r
	return t
}

// History returns the evaluation checkpoints collected so far.
func (t *Trainer) History() History {
	return t.history
}

// Totals returns the raw training-episode outcome counts so far.
func (t *Trainer) Totals() Totals {
	return t.totals
}

// Run executes the configured number of training episodes, evaluating every
// EvalInterval episodes. Any environment or recording error aborts the run
// with the error surfaced; the policies' in-memory tables keep the progress
// made up to that point (persistence is caller-triggered). Cancelling the
// context stops the run between episodes.
func (t *Trainer) Run(ctx context.Context) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}

	for episode := 1; episode <= t.cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		outcome, err := t.trainEpisode()
		if err != nil {
			return err
		}
		switch outcome {
		case OutcomeCrossWin:
			t.totals.CrossWins++
		case OutcomeCircleWin:
			t.totals.CircleWins++
		default:
			t.totals.Draws++
		}

		if t.cfg.EvalInterval > 0 && episode%t.cfg.EvalInterval == 0 {
			cp, err := t.evaluate(episode)
			if err != nil {
				return err
			}
			t.history = append(t.history, cp)
			if t.recorder != nil {
				if err := t.recorder.RecordCheckpoint(cp); err != nil {
					return fmt.Errorf("trainer: record checkpoint: %w", err)
				}
			}
		}
	}

	return nil
}

type pendingTransition struct {
	valid bool
	tr    qlearn.Transition
}

// trainEpisode plays one game with both policies in training mode. Credit
// assignment is per policy instance: each learner's update sees only its own
// (state, action), with the opponent's reply folded in as reward and
// successor state.
func (t *Trainer) trainEpisode() (Outcome, error) {
	t.pos.Reset()

	var learners [2]qlearn.Learner
	if l, ok := t.cross.(qlearn.Learner); ok {
		learners[0] = l
	}
	if l, ok := t.circle.(qlearn.Learner); ok {
		learners[1] = l
	}
	var pending [2]pendingTransition

	for !t.pos.Terminated() {
		idx := 0
		policy := t.cross
		if t.pos.Turn() == ttt.Circle {
			idx = 1
			policy = t.circle
		}

		state := t.pos.Encode()
		legal := t.pos.LegalActions()
		action := policy.SelectAction(state, legal, learners[idx] != nil)

		res, err := t.pos.Step(action)
		if err != nil {
			return OutcomeDraw, fmt.Errorf("trainer: training episode: %w", err)
		}

		// The opponent's held transition now has its successor: fold in the
		// symmetric reward of this move and apply the update. If this move
		// ended the game the opponent's transition stays terminal.
		oi := 1 - idx
		if learners[oi] != nil && pending[oi].valid {
			tr := pending[oi].tr
			tr.Reward -= res.Reward
			if !res.Terminal {
				tr.NextState = res.State
				tr.NextLegal = t.pos.LegalActions()
				tr.Terminal = false
			}
			learners[oi].Update(tr)
			pending[oi].valid = false
		}

		if learners[idx] != nil {
			tr := qlearn.Transition{
				State:    state,
				Action:   action,
				Reward:   res.Reward,
				Terminal: true,
			}
			if res.Terminal {
				learners[idx].Update(tr)
			} else {
				pending[idx] = pendingTransition{valid: true, tr: tr}
			}
		}
	}

	return outcomeOf(t.pos.Termination()), nil
}

// PlayEpisode runs one evaluation-mode game to completion and reports the
// outcome. No updates are applied.
func PlayEpisode(pos *ttt.Position, cross, circle qlearn.Policy) (Outcome, error) {
	pos.Reset()
	for !pos.Terminated() {
		policy := cross
		if pos.Turn() == ttt.Circle {
			policy = circle
		}

		state := pos.Encode()
		legal := pos.LegalActions()
		if _, err := pos.Step(policy.SelectAction(state, legal, false)); err != nil {
			return OutcomeDraw, fmt.Errorf("trainer: evaluation episode: %w", err)
		}
	}
	return outcomeOf(pos.Termination()), nil
}

// evaluate plays EvalEpisodes greedy games against a random opponent in
// each seat, plus one greedy self-play probe, and logs the rates.
func (t *Trainer) evaluate(episode int) (Checkpoint, error) {
	cp := Checkpoint{Episode: episode}
	opponent := qlearn.NewRandomPolicy().WithRand(t.evalRng)
	pos := ttt.NewPosition()

	for i := 0; i < t.cfg.EvalEpisodes; i++ {
		outcome, err := PlayEpisode(pos, t.cross, opponent)
		if err != nil {
			return cp, err
		}
		cp.AsCross.record(outcome, ttt.Cross)
	}
	for i := 0; i < t.cfg.EvalEpisodes; i++ {
		outcome, err := PlayEpisode(pos, opponent, t.circle)
		if err != nil {
			return cp, err
		}
		cp.AsCircle.record(outcome, ttt.Circle)
	}

	selfPlay, err := PlayEpisode(pos, t.cross, t.circle)
	if err != nil {
		return cp, err
	}

	t.log.Info().
		Int("episode", episode).
		Float64("cross_win", cp.AsCross.WinRate()).
		Float64("cross_lose", cp.AsCross.LossRate()).
		Float64("cross_tie", cp.AsCross.TieRate()).
		Float64("circle_win", cp.AsCircle.WinRate()).
		Float64("circle_lose", cp.AsCircle.LossRate()).
		Float64("circle_tie", cp.AsCircle.TieRate()).
		Stringer("self_play", selfPlay).
		Msg("evaluation checkpoint")

	return cp, nil
}
