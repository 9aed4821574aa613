// Package storage persists training artifacts in SQLite: the run log
// (sessions and their evaluation checkpoints) and an alternative Q-table
// store for callers that prefer one database file over JSON snapshots.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/qlearngo/go-qttt/pkg/trainer"
)

// RunLog records training sessions and their evaluation checkpoints.
type RunLog struct {
	db *sql.DB
}

// Run is one training session record.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Episodes   int        `json:"episodes"`
	Alpha      float64    `json:"alpha"`
	Gamma      float64    `json:"gamma"`
	Epsilon    float64    `json:"epsilon"`
	Seed       int64      `json:"seed"`
}

// OpenRunLog opens (creating if needed) the run log database.
func OpenRunLog(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open run log: %w", err)
	}

	log := &RunLog{db: db}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate run log: %w", err)
	}
	return log, nil
}

func (l *RunLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		episodes INTEGER NOT NULL,
		alpha REAL NOT NULL,
		gamma REAL NOT NULL,
		epsilon REAL NOT NULL,
		seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS checkpoints (
		run_id TEXT NOT NULL,
		episode INTEGER NOT NULL,
		seat TEXT NOT NULL,
		wins INTEGER NOT NULL,
		losses INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		PRIMARY KEY (run_id, episode, seat),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_checkpoints_run ON checkpoints(run_id, episode);
	`

	_, err := l.db.Exec(schema)
	return err
}

func (l *RunLog) Close() error {
	return l.db.Close()
}

// StartRun inserts a new session record and returns its generated ID.
func (l *RunLog) StartRun(cfg *trainer.Config) (string, error) {
	id := uuid.NewString()
	_, err := l.db.Exec(
		`INSERT INTO runs (id, started_at, episodes, alpha, gamma, epsilon, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), cfg.Episodes, cfg.Alpha, cfg.Gamma, cfg.Epsilon, cfg.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: start run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the session's completion time.
func (l *RunLog) FinishRun(runID string) error {
	if _, err := l.db.Exec(
		`UPDATE runs SET finished_at = ? WHERE id = ?`, time.Now().UTC(), runID,
	); err != nil {
		return fmt.Errorf("storage: finish run: %w", err)
	}
	return nil
}

// Recorder binds a run ID into a trainer.CheckpointRecorder.
func (l *RunLog) Recorder(runID string) trainer.CheckpointRecorder {
	return &runRecorder{log: l, runID: runID}
}

type runRecorder struct {
	log   *RunLog
	runID string
}

func (r *runRecorder) RecordCheckpoint(cp trainer.Checkpoint) error {
	return r.log.RecordCheckpoint(r.runID, cp)
}

// RecordCheckpoint stores both seats' evaluation stats for one checkpoint.
func (l *RunLog) RecordCheckpoint(runID string, cp trainer.Checkpoint) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: record checkpoint: %w", err)
	}
	defer tx.Rollback()

	for seat, stats := range map[string]trainer.Stats{
		"cross":  cp.AsCross,
		"circle": cp.AsCircle,
	} {
		if _, err := tx.Exec(
			`INSERT INTO checkpoints (run_id, episode, seat, wins, losses, draws)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, cp.Episode, seat, stats.Wins, stats.Losses, stats.Draws,
		); err != nil {
			return fmt.Errorf("storage: record checkpoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: record checkpoint: %w", err)
	}
	return nil
}

// Checkpoints loads a session's evaluation history, ordered by episode.
func (l *RunLog) Checkpoints(runID string) (trainer.History, error) {
	rows, err := l.db.Query(
		`SELECT episode, seat, wins, losses, draws
		 FROM checkpoints WHERE run_id = ? ORDER BY episode`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load checkpoints: %w", err)
	}
	defer rows.Close()

	byEpisode := map[int]*trainer.Checkpoint{}
	order := []int{}
	for rows.Next() {
		var episode int
		var seat string
		var stats trainer.Stats
		if err := rows.Scan(&episode, &seat, &stats.Wins, &stats.Losses, &stats.Draws); err != nil {
			return nil, fmt.Errorf("storage: load checkpoints: %w", err)
		}

		cp, ok := byEpisode[episode]
		if !ok {
			cp = &trainer.Checkpoint{Episode: episode}
			byEpisode[episode] = cp
			order = append(order, episode)
		}
		if seat == "cross" {
			cp.AsCross = stats
		} else {
			cp.AsCircle = stats
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load checkpoints: %w", err)
	}

	history := make(trainer.History, 0, len(order))
	for _, episode := range order {
		history = append(history, *byEpisode[episode])
	}
	return history, nil
}
