package ttt

import (
	"fmt"
	"strings"
)

// State key for the position, much like the FEN representation of a
// chessboard. Each row lists its marks with digit gaps for empty cells,
// rows are joined with '/', followed by a space and the side to move:
//
//	3/3/3 x        - the empty board, cross to move
//	xo1/3/1x1 o    - cross on a1 and b2, circle on a2, circle to move
//
// The encoding is deterministic and injective over reachable boards, so it
// serves as the lookup key for value tables.
func (p *Position) Encode() State {
	builder := strings.Builder{}

	for row := 0; row < boardSide; row++ {
		if row > 0 {
			builder.WriteByte('/')
		}

		counter := 0
		for col := 0; col < boardSide; col++ {
			switch cell := p.board[row*boardSide+col]; cell {
			case Cross, Circle:
				if counter > 0 {
					builder.WriteByte('0' + byte(counter))
					counter = 0
				}
				builder.WriteString(cell.String())
			default:
				counter++
			}
		}
		if counter > 0 {
			builder.WriteByte('0' + byte(counter))
		}
	}

	builder.WriteByte(' ')
	builder.WriteString(p.turn.String())
	return State(builder.String())
}

// Decode parses a state key back into a position, recomputing the move
// counter and termination flags.
func Decode(s State) (*Position, error) {
	fields := strings.Fields(string(s))
	if len(fields) != 2 {
		return nil, fmt.Errorf("ttt: malformed state %q: expected board and turn sections", s)
	}

	p := NewPosition()
	rows := strings.Split(fields[0], "/")
	if len(rows) != boardSide {
		return nil, fmt.Errorf("ttt: malformed state %q: expected %d rows", s, boardSide)
	}

	for row, rowStr := range rows {
		col := 0
		for _, ch := range rowStr {
			switch {
			case ch >= '1' && ch <= '3':
				col += int(ch - '0')
			case ch == 'x' || ch == 'o':
				if col >= boardSide {
					return nil, fmt.Errorf("ttt: malformed state %q: row %d overflows", s, row)
				}
				mv := Move(row*boardSide + col)
				cell := Cross
				idx := _bitboardCrossIdx
				if ch == 'o' {
					cell = Circle
					idx = _bitboardCircleIdx
				}
				p.board[mv] = cell
				p.bitboards[idx] |= 1 << mv
				p.counter++
				col++
			default:
				return nil, fmt.Errorf("ttt: malformed state %q: unexpected character %q", s, ch)
			}
		}
		if col != boardSide {
			return nil, fmt.Errorf("ttt: malformed state %q: row %d has %d cells", s, row, col)
		}
	}

	switch fields[1] {
	case "x":
		p.turn = Cross
	case "o":
		p.turn = Circle
	default:
		return nil, fmt.Errorf("ttt: malformed state %q: invalid turn %q", s, fields[1])
	}

	p.checkTerminationPattern()
	return p, nil
}
