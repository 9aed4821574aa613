package storage

import (
	"database/sql"
	"fmt"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
	"github.com/qlearngo/go-qttt/pkg/ttt"
)

// TableStore keeps a Q-table in a SQLite database. SQLite REAL columns hold
// IEEE doubles, so stored values round-trip exactly like the JSON snapshot.
type TableStore struct {
	db *sql.DB
}

func OpenTableStore(path string) (*TableStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open table store: %w", err)
	}

	store := &TableStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate table store: %w", err)
	}
	return store, nil
}

func (s *TableStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS qvalues (
		state TEXT NOT NULL,
		action INTEGER NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (state, action)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *TableStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored table with the given one.
func (s *TableStore) Save(table *qlearn.QTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: save q-table: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM qvalues`); err != nil {
		return fmt.Errorf("storage: save q-table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO qvalues (state, action, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: save q-table: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	table.Each(func(state ttt.State, action ttt.Move, value float64) {
		if insertErr != nil {
			return
		}
		_, insertErr = stmt.Exec(string(state), int(action), value)
	})
	if insertErr != nil {
		return fmt.Errorf("storage: save q-table: %w", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: save q-table: %w", err)
	}
	return nil
}

// Load reads the stored table. Undecodable state keys or out-of-range
// actions surface as qlearn.ErrMalformedTable, they indicate a corrupted
// artifact that must not be trained further.
func (s *TableStore) Load() (*qlearn.QTable, error) {
	rows, err := s.db.Query(`SELECT state, action, value FROM qvalues`)
	if err != nil {
		return nil, fmt.Errorf("storage: load q-table: %w", err)
	}
	defer rows.Close()

	table := qlearn.NewQTable()
	for rows.Next() {
		var state string
		var action int
		var value float64
		if err := rows.Scan(&state, &action, &value); err != nil {
			return nil, fmt.Errorf("storage: load q-table: %w", err)
		}
		if action < 0 || action >= ttt.NumCells {
			return nil, fmt.Errorf("%w: action %d out of range", qlearn.ErrMalformedTable, action)
		}
		if _, err := ttt.Decode(ttt.State(state)); err != nil {
			return nil, fmt.Errorf("%w: %v", qlearn.ErrMalformedTable, err)
		}
		table.Set(ttt.State(state), ttt.Move(action), value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load q-table: %w", err)
	}
	return table, nil
}
