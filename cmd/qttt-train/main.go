// Command qttt-train trains two Q-learning policies by self-play and
// periodically reports their win/lose/tie rates against a random opponent.
//
// Usage:
//
//	qttt-train -n 100000 [-alpha 0.01] [-gamma 0.96] [-epsilon 0.1]
//	           [-eval-interval 1000] [-eval-episodes 100] [-seed 0]
//	           [-table1 q_table_player1.json] [-table2 q_table_player2.json]
//	           [-runlog runs.db]
//
// Existing table files are loaded before training, so runs accumulate.
// Both tables are saved on completion (including an interrupt between
// episodes), a malformed table file aborts the run instead.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
	"github.com/qlearngo/go-qttt/pkg/storage"
	"github.com/qlearngo/go-qttt/pkg/trainer"
)

func main() {
	episodes := flag.Int("n", 0, "number of training episodes (required)")
	alpha := flag.Float64("alpha", qlearn.DefaultAlpha, "learning rate")
	gamma := flag.Float64("gamma", qlearn.DefaultGamma, "discount factor")
	epsilon := flag.Float64("epsilon", qlearn.DefaultEpsilon, "exploration rate during training")
	evalInterval := flag.Int("eval-interval", trainer.DefaultEvalInterval, "episodes between evaluation checkpoints (0 disables)")
	evalEpisodes := flag.Int("eval-episodes", trainer.DefaultEvalEpisodes, "evaluation games per seat at each checkpoint")
	seed := flag.Int64("seed", 0, "evaluation opponent seed (0 uses the clock)")
	table1 := flag.String("table1", "q_table_player1.json", "first player's q-table file")
	table2 := flag.String("table2", "q_table_player2.json", "second player's q-table file")
	runlogPath := flag.String("runlog", "", "optional SQLite run log database")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg := trainer.DefaultConfig().
		SetEpisodes(*episodes).
		SetAlpha(*alpha).
		SetGamma(*gamma).
		SetEpsilon(*epsilon).
		SetEvalInterval(*evalInterval).
		SetEvalEpisodes(*evalEpisodes).
		SetSeed(*seed)

	if err := run(cfg, *table1, *table2, *runlogPath); err != nil {
		log.Error().Err(err).Msg("training failed")
		os.Exit(1)
	}
}

func run(cfg *trainer.Config, table1, table2, runlogPath string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	crossTable, err := loadTable(table1)
	if err != nil {
		return err
	}
	circleTable, err := loadTable(table2)
	if err != nil {
		return err
	}

	cross := qlearn.NewQLearningPolicy(crossTable)
	circle := qlearn.NewQLearningPolicy(circleTable)
	t := trainer.New(cfg, cross, circle).WithLogger(log.Logger)

	var runlog *storage.RunLog
	var runID string
	if runlogPath != "" {
		if runlog, err = storage.OpenRunLog(runlogPath); err != nil {
			return err
		}
		defer runlog.Close()

		if runID, err = runlog.StartRun(cfg); err != nil {
			return err
		}
		t.WithRecorder(runlog.Recorder(runID))
		log.Info().Str("run_id", runID).Str("runlog", runlogPath).Msg("run log attached")
	}

	log.Info().
		Int("episodes", cfg.Episodes).
		Float64("alpha", cfg.Alpha).
		Float64("gamma", cfg.Gamma).
		Float64("epsilon", cfg.Epsilon).
		Msg("training started")

	// An interrupt between episodes keeps everything learned so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := cross.Table.SaveFile(table1); err != nil {
		return err
	}
	if err := circle.Table.SaveFile(table2); err != nil {
		return err
	}

	if runlog != nil {
		if err := runlog.FinishRun(runID); err != nil {
			return err
		}
	}

	totals := t.Totals()
	log.Info().
		Int("cross_wins", totals.CrossWins).
		Int("circle_wins", totals.CircleWins).
		Int("draws", totals.Draws).
		Int("cross_states", cross.Table.States()).
		Int("circle_states", circle.Table.States()).
		Str("table1", table1).
		Str("table2", table2).
		Msg("training finished, tables saved")
	return nil
}

// loadTable reads an existing table file, or starts a fresh table when the
// file does not exist yet.
func loadTable(path string) (*qlearn.QTable, error) {
	table := qlearn.NewQTable()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, err
	}
	if err := table.LoadFile(path); err != nil {
		return nil, err
	}
	log.Info().Str("table", path).Int("states", table.States()).Msg("loaded existing q-table")
	return table, nil
}
