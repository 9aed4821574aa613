// Command qttt-play is a terminal tic-tac-toe game against a trained agent.
//
// The agent policy is chosen with -policy (random or qlearning); a
// Q-learning agent loads its table from -table, defaulting to the seat's
// training artifact (q_table_player1.json or q_table_player2.json). Playing
// against an untrained or missing table is allowed, the agent simply plays
// its tie-broken defaults.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
	"github.com/qlearngo/go-qttt/pkg/ttt"
)

func main() {
	policyName := flag.String("policy", "qlearning", "agent policy: random or qlearning")
	tablePath := flag.String("table", "", "q-table file for the agent (defaults to the seat's training artifact)")
	flag.Parse()

	output := termenv.NewOutput(os.Stdout)
	reader := bufio.NewReader(os.Stdin)

	for {
		if err := playGame(output, reader, *policyName, *tablePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		answer, err := prompt(reader, "Play again? [Y/n]: ")
		if err != nil || strings.EqualFold(answer, "n") {
			return
		}
	}
}

func playGame(output *termenv.Output, reader *bufio.Reader, policyName, tablePath string) error {
	var humanSeat ttt.Cell
	for humanSeat == ttt.None {
		answer, err := prompt(reader, "First player or second? [1/2]: ")
		if err != nil {
			return err
		}
		switch answer {
		case "1":
			humanSeat = ttt.Cross
		case "2":
			humanSeat = ttt.Circle
		}
	}

	agent, err := buildAgent(policyName, tablePath, humanSeat.Other())
	if err != nil {
		return err
	}

	pos := ttt.NewPosition()
	pos.Reset()

	for !pos.Terminated() {
		render(output, pos)

		if pos.Turn() == humanSeat {
			if err := humanMove(reader, pos); err != nil {
				return err
			}
			continue
		}

		state := pos.Encode()
		legal := pos.LegalActions()
		if _, err := pos.Step(agent.SelectAction(state, legal, false)); err != nil {
			return fmt.Errorf("agent made an illegal move: %w", err)
		}
	}

	render(output, pos)
	switch winner, ok := pos.Winner(); {
	case ok && winner == humanSeat:
		fmt.Println("Congratulations, you win!")
	case ok:
		fmt.Println("Sorry, you lose!")
	default:
		fmt.Println("Tie!")
	}
	return nil
}

func buildAgent(policyName, tablePath string, seat ttt.Cell) (qlearn.Policy, error) {
	switch policyName {
	case "random":
		return qlearn.NewRandomPolicy(), nil
	case "qlearning":
		if tablePath == "" {
			tablePath = "q_table_player1.json"
			if seat == ttt.Circle {
				tablePath = "q_table_player2.json"
			}
		}
		table := qlearn.NewQTable()
		if _, err := os.Stat(tablePath); err == nil {
			if err := table.LoadFile(tablePath); err != nil {
				return nil, err
			}
		}
		return qlearn.NewQLearningPolicy(table), nil
	}
	return nil, fmt.Errorf("unknown policy %q, expected random or qlearning", policyName)
}

// humanMove reads "x y" coordinates (1-based) until a legal move is given.
func humanMove(reader *bufio.Reader, pos *ttt.Position) error {
	legal := pos.LegalActions()
	for {
		answer, err := prompt(reader, `Please input the coordinates as "x y" to place, starting from 1: `)
		if err != nil {
			return err
		}

		var row, col int
		if _, err := fmt.Sscanf(answer, "%d %d", &row, &col); err != nil {
			fmt.Println("Invalid input!")
			continue
		}

		mv, ok := ttt.MoveAt(row-1, col-1)
		if !ok || !legal.Contains(mv) {
			fmt.Println("That cell is not available!")
			continue
		}

		_, err = pos.Step(mv)
		return err
	}
}

func prompt(reader *bufio.Reader, msg string) (string, error) {
	fmt.Print(msg)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

const _rowSplitter = "---+---+---"

// render clears the screen and draws the board with colored marks.
func render(output *termenv.Output, pos *ttt.Position) {
	output.ClearScreen()
	output.MoveCursor(1, 1)

	builder := strings.Builder{}
	for row := 0; row < 3; row++ {
		if row > 0 {
			builder.WriteString(_rowSplitter)
			builder.WriteByte('\n')
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				builder.WriteByte('|')
			}
			mv, _ := ttt.MoveAt(row, col)
			switch pos.At(mv) {
			case ttt.Cross:
				builder.WriteString(" " + output.String("X").Foreground(output.Color("1")).Bold().String() + " ")
			case ttt.Circle:
				builder.WriteString(" " + output.String("O").Foreground(output.Color("4")).Bold().String() + " ")
			default:
				builder.WriteString("   ")
			}
		}
		builder.WriteByte('\n')
	}

	fmt.Fprintln(output, builder.String())
}
