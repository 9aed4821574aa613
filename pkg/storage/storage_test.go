package storage

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
	"github.com/qlearngo/go-qttt/pkg/trainer"
	"github.com/qlearngo/go-qttt/pkg/ttt"
)

func TestRunLogRoundTrip(t *testing.T) {
	log, err := OpenRunLog(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer log.Close()

	cfg := trainer.DefaultConfig().SetEpisodes(5000).SetSeed(7)
	runID, err := log.StartRun(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	recorder := log.Recorder(runID)
	want := trainer.History{
		{
			Episode:  1000,
			AsCross:  trainer.Stats{Wins: 55, Losses: 30, Draws: 15},
			AsCircle: trainer.Stats{Wins: 40, Losses: 45, Draws: 15},
		},
		{
			Episode:  2000,
			AsCross:  trainer.Stats{Wins: 80, Losses: 5, Draws: 15},
			AsCircle: trainer.Stats{Wins: 60, Losses: 20, Draws: 20},
		},
	}
	for _, cp := range want {
		require.NoError(t, recorder.RecordCheckpoint(cp))
	}
	require.NoError(t, log.FinishRun(runID))

	history, err := log.Checkpoints(runID)
	require.NoError(t, err)
	require.Equal(t, want, history)

	// A second run does not leak into the first one's history.
	otherID, err := log.StartRun(cfg)
	require.NoError(t, err)
	require.NoError(t, log.RecordCheckpoint(otherID, trainer.Checkpoint{Episode: 500}))

	history, err = log.Checkpoints(runID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestTableStoreRoundTrip(t *testing.T) {
	store, err := OpenTableStore(filepath.Join(t.TempDir(), "qtable.db"))
	require.NoError(t, err)
	defer store.Close()

	table := qlearn.NewQTable()
	r := rand.New(rand.NewSource(19))
	for game := 0; game < 100; game++ {
		p := ttt.NewPosition()
		for !p.Terminated() {
			state := p.Encode()
			legal := p.LegalActions()
			mv := legal.Moves[r.Intn(int(legal.Size))]
			table.Set(state, mv, r.NormFloat64())
			_, err := p.Step(mv)
			require.NoError(t, err)
		}
	}

	require.NoError(t, store.Save(table))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, table.Len(), loaded.Len())

	table.Each(func(state ttt.State, action ttt.Move, value float64) {
		require.Equal(t, value, loaded.Get(state, action), "Q(%q,%d)", state, action)
	})

	// Saving again overwrites instead of accumulating.
	table.Set("3/3/3 x", 4, 1.25)
	require.NoError(t, store.Save(table))
	loaded, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, table.Len(), loaded.Len())
	require.Equal(t, 1.25, loaded.Get("3/3/3 x", 4))
}

func TestTableStoreRejectsCorruptedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.db")
	store, err := OpenTableStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`INSERT INTO qvalues (state, action, value) VALUES ('garbage', 0, 1.0)`)
	require.NoError(t, err)

	_, err = store.Load()
	require.True(t, errors.Is(err, qlearn.ErrMalformedTable), "err = %v", err)
}
