package ttt

import "errors"

var (
	// ErrInvalidAction is returned by Step when the targeted cell is not
	// empty, or the move index is out of range. The board is left unchanged.
	ErrInvalidAction = errors.New("ttt: action is not legal in the current position")

	// ErrGameOver is returned by Step once the position is terminal.
	ErrGameOver = errors.New("ttt: game is over, no further moves accepted")
)
