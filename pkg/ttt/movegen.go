package ttt

import "math/bits"

// LegalActions enumerates the empty cells in ascending index order.
// The list is empty iff the position is terminal or the board is full.
func (p *Position) LegalActions() MoveList {
	movelist := MoveList{}
	if p.termination != TerminationNone {
		return movelist
	}

	free := uint(_fullBoard ^ (p.bitboards[_bitboardCrossIdx] | p.bitboards[_bitboardCircleIdx]))
	for free != 0 {
		movelist.AppendMove(Move(bits.TrailingZeros(free)))
		free &= free - 1
	}

	return movelist
}
