package ttt

import (
	"math/rand"
	"testing"
)

func TestEncodeEmptyBoard(t *testing.T) {
	p := NewPosition()
	if state := p.Encode(); state != "3/3/3 x" {
		t.Fatalf("empty board state = %q", state)
	}
}

func TestEncodeKnownPosition(t *testing.T) {
	p := NewPosition()
	for _, mv := range []Move{0, 3, 4} {
		if _, err := p.Step(mv); err != nil {
			t.Fatalf("step %d: %v", mv, err)
		}
	}

	// X on a1 and b2, O on a2, circle to move.
	if state := p.Encode(); state != "x2/ox1/3 o" {
		t.Fatalf("state = %q", state)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for game := 0; game < 500; game++ {
		p := NewPosition()
		for !p.Terminated() {
			state := p.Encode()
			decoded, err := Decode(state)
			if err != nil {
				t.Fatalf("decode %q: %v", state, err)
			}
			if decoded.Encode() != state {
				t.Fatalf("round trip %q -> %q", state, decoded.Encode())
			}
			if decoded.Turn() != p.Turn() || decoded.Counter() != p.Counter() {
				t.Fatalf("decode %q: turn/counter mismatch", state)
			}

			legal := p.LegalActions()
			if _, err := p.Step(legal.Moves[r.Intn(int(legal.Size))]); err != nil {
				t.Fatal(err)
			}
		}

		// Terminal positions must decode with their termination restored.
		decoded, err := Decode(p.Encode())
		if err != nil {
			t.Fatal(err)
		}
		if decoded.Termination() != p.Termination() {
			t.Fatalf("decoded termination = %v, want %v", decoded.Termination(), p.Termination())
		}
	}
}

// No two distinct reachable boards may share a key.
func TestEncodeInjective(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	seen := map[State][NumCells]Cell{}

	for game := 0; game < 3000; game++ {
		p := NewPosition()
		for !p.Terminated() {
			state := p.Encode()
			if prev, ok := seen[state]; ok {
				if prev != p.board {
					t.Fatalf("state %q maps to two distinct boards", state)
				}
			} else {
				seen[state] = p.board
			}

			legal := p.LegalActions()
			if _, err := p.Step(legal.Moves[r.Intn(int(legal.Size))]); err != nil {
				t.Fatal(err)
			}
		}
	}

	if len(seen) < 1000 {
		t.Fatalf("expected to visit well over 1000 states, got %d", len(seen))
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, state := range []State{
		"",
		"3/3/3",
		"3/3 x",
		"4/3/3 x",
		"3/3/3 z",
		"xq1/3/3 x",
		"xxxx/3/3 o",
	} {
		if _, err := Decode(state); err == nil {
			t.Fatalf("expected decode error for %q", state)
		}
	}
}
