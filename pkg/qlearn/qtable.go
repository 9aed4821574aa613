package qlearn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/qlearngo/go-qttt/pkg/ttt"
)

// ErrMalformedTable is returned when a persisted table cannot be decoded.
// A malformed table is a corrupted training artifact and must not be
// trained further, so loads never fall back to an empty table silently.
var ErrMalformedTable = errors.New("qlearn: malformed q-table")

// QTable maps (state, action) pairs to their value estimates. Unseen pairs
// resolve to 0.0 without being inserted, so lookups never grow the table.
// Each player owns its table instance, there are no process-wide singletons.
type QTable struct {
	values map[ttt.State]map[ttt.Move]float64
}

func NewQTable() *QTable {
	return &QTable{values: make(map[ttt.State]map[ttt.Move]float64)}
}

// Get looks up Q(state, action), defaulting to 0.0 for unseen pairs.
func (q *QTable) Get(state ttt.State, action ttt.Move) float64 {
	return q.values[state][action]
}

// Set assigns Q(state, action) = value.
func (q *QTable) Set(state ttt.State, action ttt.Move, value float64) {
	actions, ok := q.values[state]
	if !ok {
		actions = make(map[ttt.Move]float64)
		q.values[state] = actions
	}
	actions[action] = value
}

// Max returns the highest value among the legal actions of the given state,
// or 0 when there are none (the bootstrap term past a terminal state).
func (q *QTable) Max(state ttt.State, legal ttt.MoveList) float64 {
	best := 0.0
	for i, mv := range legal.Slice() {
		if v := q.Get(state, mv); i == 0 || v > best {
			best = v
		}
	}
	return best
}

// Len is the number of stored (state, action) pairs.
func (q *QTable) Len() int {
	n := 0
	for _, actions := range q.values {
		n += len(actions)
	}
	return n
}

// States is the number of distinct states with at least one stored value.
func (q *QTable) States() int {
	return len(q.values)
}

// Each calls fn for every stored (state, action, value) entry.
func (q *QTable) Each(fn func(state ttt.State, action ttt.Move, value float64)) {
	for state, actions := range q.values {
		for action, value := range actions {
			fn(state, action, value)
		}
	}
}

// SaveFile writes the table as JSON. Float values survive the round trip
// exactly (shortest-representation encoding).
func (q *QTable) SaveFile(path string) error {
	data, err := json.Marshal(q.values)
	if err != nil {
		return fmt.Errorf("qlearn: encode q-table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("qlearn: save q-table: %w", err)
	}
	return nil
}

// LoadFile replaces the table contents with the persisted form.
func (q *QTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("qlearn: load q-table: %w", err)
	}

	values := make(map[ttt.State]map[ttt.Move]float64)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformedTable, path, err)
	}

	// Reject keys that do not decode to a board position.
	for state := range values {
		if _, err := ttt.Decode(state); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrMalformedTable, path, err)
		}
	}

	q.values = values
	return nil
}
