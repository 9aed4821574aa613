package ttt

type Termination int

const (
	TerminationNone      Termination = 0
	TerminationCircleWon Termination = 1
	TerminationCrossWon  Termination = 2
	TerminationDraw      Termination = 4
)

func (t Termination) String() string {
	switch t {
	case TerminationCrossWon:
		return "cross won"
	case TerminationCircleWon:
		return "circle won"
	case TerminationDraw:
		return "draw"
	}
	return "none"
}

// horizontal, vertical and diagonal patterns as bitboards
var _winningBitboardPatterns [8]uint16 = [...]uint16{
	0b111000000, 0b000111000, 0b000000111,
	0b100100100, 0b010010010, 0b001001001,
	0b100010001, 0b001010100,
}

// Get the termination reason, valid after Step or checkTerminationPattern
func (p *Position) Termination() Termination {
	return p.termination
}

func (p *Position) checkTerminationPattern() {
	crossbb := p.bitboards[_bitboardCrossIdx]
	circlebb := p.bitboards[_bitboardCircleIdx]

	// See if there is any winning pattern
	for i := range _winningBitboardPatterns {
		if crossbb&_winningBitboardPatterns[i] == _winningBitboardPatterns[i] {
			p.termination = TerminationCrossWon
			return
		}
		if circlebb&_winningBitboardPatterns[i] == _winningBitboardPatterns[i] {
			p.termination = TerminationCircleWon
			return
		}
	}

	// If not, check if that's a draw (the board is fully filled)
	if (crossbb | circlebb) == _fullBoard {
		p.termination = TerminationDraw
	}
}
