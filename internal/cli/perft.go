package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Yash182023/Chess-Mania/internal/engine"
)

const spinCharSet = 14

// chessmania perft
func Perft() *cobra.Command {
	var (
		fen    string
		divide bool
	)

	cmd := &cobra.Command{
		Use:   "perft <depth>",
		Short: "Count the leaf positions of the move tree",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`perft walks every legal move sequence of the given depth from
			a position and prints how many there are.

			With --divide the count is split by root move, and each
			root move is searched in parallel.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var depth int
			if _, err := fmt.Sscan(args[0], &depth); err != nil || depth < 0 {
				return fmt.Errorf("invalid depth %q", args[0])
			}

			pos, err := engine.ParseFEN(fen)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[spinCharSet], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " counting"
			s.Start()
			start := time.Now()

			var (
				total uint64
				lines []divideLine
			)
			if divide {
				lines, err = perftDivide(cmd.Context(), pos, depth)
				for _, l := range lines {
					total += l.nodes
				}
			} else {
				total = engine.Perft(pos, depth)
			}

			s.Stop()
			if err != nil {
				return err
			}

			elapsed := time.Since(start)
			logrus.WithFields(logrus.Fields{
				"depth":   depth,
				"elapsed": elapsed,
			}).Debug("perft finished")

			printPerft(cmd.OutOrStdout(), lines, total, elapsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&fen, "fen", engine.StartFEN, "Position to search from")
	cmd.Flags().BoolVar(&divide, "divide", false, "Print the count below each root move")

	return cmd
}

type divideLine struct {
	move  engine.Move
	nodes uint64
}

// perftDivide counts the nodes below each root move concurrently.
func perftDivide(ctx context.Context, pos engine.Position, depth int) ([]divideLine, error) {
	if depth == 0 {
		return nil, nil
	}

	moves := engine.AllLegalMoves(pos, pos.SideToMove())
	lines := make([]divideLine, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child, err := engine.ApplyMove(pos, m)
			if err != nil {
				return err
			}
			lines[i] = divideLine{move: m, nodes: engine.Perft(child, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(lines, func(a, b int) bool {
		return lines[a].move.String() < lines[b].move.String()
	})
	return lines, nil
}

func printPerft(w io.Writer, lines []divideLine, total uint64, elapsed time.Duration) {
	for _, l := range lines {
		fmt.Fprintf(w, "%s: %s\n", l.move, humanize.Comma(int64(l.nodes)))
	}
	if len(lines) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "nodes: %s\n", humanize.Comma(int64(total)))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "nps:   %s\n", humanize.Comma(int64(float64(total)/secs)))
	}
}
