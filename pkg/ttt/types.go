package ttt

// Cell is the content of a single board square.
type Cell uint8

const (
	None   Cell = 0
	Cross  Cell = 1
	Circle Cell = 2
)

// Other returns the opposing player's mark. None maps to None.
func (c Cell) Other() Cell {
	switch c {
	case Cross:
		return Circle
	case Circle:
		return Cross
	}
	return None
}

func (c Cell) String() string {
	switch c {
	case Cross:
		return "x"
	case Circle:
		return "o"
	}
	return "."
}

// Move is the index of a board cell, row-major from the top left.
type Move uint8

const (
	MoveIllegal Move = 255
	NumCells         = 9
	boardSide        = 3
)

// MoveAt converts 0-based (row, col) coordinates to a Move.
func MoveAt(row, col int) (Move, bool) {
	if row < 0 || row >= boardSide || col < 0 || col >= boardSide {
		return MoveIllegal, false
	}
	return Move(row*boardSide + col), true
}

func (m Move) Row() int { return int(m) / boardSide }
func (m Move) Col() int { return int(m) % boardSide }

type MoveList struct {
	Moves [NumCells]Move
	Size  uint8
}

func (ml *MoveList) AppendMove(mv Move) {
	ml.Moves[ml.Size] = mv
	ml.Size++
}

func (ml *MoveList) Slice() []Move {
	return ml.Moves[:ml.Size]
}

func (ml *MoveList) Contains(mv Move) bool {
	for _, m := range ml.Slice() {
		if m == mv {
			return true
		}
	}
	return false
}

// State is the canonical, hashable key of a board position plus the side
// to move. It is produced by Position.Encode and treated as an opaque,
// immutable token by everything that stores it.
type State string
