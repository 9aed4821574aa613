package ttt

import (
	"fmt"
	"strings"
)

const (
	_bitboardCrossIdx  = 0
	_bitboardCircleIdx = 1

	_fullBoard uint16 = 0b111111111
)

// Position holds one tic-tac-toe game. The board is owned exclusively by the
// position for the duration of an episode and is reset at episode start.
type Position struct {
	board       [NumCells]Cell
	bitboards   [2]uint16
	turn        Cell
	counter     int
	termination Termination
}

func NewPosition() *Position {
	p := &Position{}
	p.Reset()
	return p
}

// Reset clears the board, sets Cross to move and returns the initial state.
func (p *Position) Reset() State {
	*p = Position{turn: Cross}
	return p.Encode()
}

// Turn is the player to move. Meaningless once the position is terminal.
func (p *Position) Turn() Cell {
	return p.turn
}

// Counter is the number of moves played so far.
func (p *Position) Counter() int {
	return p.counter
}

func (p *Position) At(mv Move) Cell {
	if mv >= NumCells {
		return None
	}
	return p.board[mv]
}

func (p *Position) Terminated() bool {
	return p.termination != TerminationNone
}

// Winner reports the winning player, if any.
func (p *Position) Winner() (Cell, bool) {
	switch p.termination {
	case TerminationCrossWon:
		return Cross, true
	case TerminationCircleWon:
		return Circle, true
	}
	return None, false
}

// Clone makes a deep copy of the position (no shared memory with this object).
func (p *Position) Clone() Position {
	return *p
}

// StepResult is the observation produced by one Step call.
type StepResult struct {
	State       State
	Reward      float64
	Terminal    bool
	Termination Termination
}

// Step marks the mover's cell, evaluates termination and advances the turn
// when the game continues. Reward is +1 to the mover completing a winning
// line and 0 otherwise; the symmetric -1 for the losing side is credited by
// the caller to the opponent's last transition.
func (p *Position) Step(mv Move) (StepResult, error) {
	if p.termination != TerminationNone {
		return StepResult{}, fmt.Errorf("%w (termination=%v)", ErrGameOver, p.termination)
	}
	if mv >= NumCells || p.board[mv] != None {
		return StepResult{}, fmt.Errorf("%w: move %d", ErrInvalidAction, mv)
	}

	idx := _bitboardCrossIdx
	if p.turn == Circle {
		idx = _bitboardCircleIdx
	}
	p.bitboards[idx] |= 1 << mv
	p.board[mv] = p.turn
	p.counter++

	p.checkTerminationPattern()

	res := StepResult{
		Terminal:    p.termination != TerminationNone,
		Termination: p.termination,
	}
	if winner, ok := p.Winner(); ok && winner == p.turn {
		res.Reward = 1
	}
	if !res.Terminal {
		p.turn = p.turn.Other()
	}
	res.State = p.Encode()
	return res, nil
}

const _rowSplitter = "---+---+---"

// String renders the board as a plain text grid, one mark per cell.
func (p *Position) String() string {
	builder := strings.Builder{}
	for row := 0; row < boardSide; row++ {
		if row > 0 {
			builder.WriteString(_rowSplitter)
			builder.WriteByte('\n')
		}
		for col := 0; col < boardSide; col++ {
			if col > 0 {
				builder.WriteByte('|')
			}
			mark := " "
			switch p.board[row*boardSide+col] {
			case Cross:
				mark = "X"
			case Circle:
				mark = "O"
			}
			builder.WriteString(" " + mark + " ")
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}
