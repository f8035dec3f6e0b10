package cli

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Yash182023/Chess-Mania/internal/engine"
)

// chessmania moves
func Moves() *cobra.Command {
	var fen string

	cmd := &cobra.Command{
		Use:   "moves [square]",
		Short: "List the legal moves of a position",
		Args:  cobra.MaximumNArgs(1),
		Long: heredoc.Doc(`moves prints the board and the legal moves of the side to
			move. Given a square such as e2, only the moves of the piece
			on that square are listed.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := engine.ParseFEN(fen)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pos)
			fmt.Fprintf(out, "status: %s\n", engine.Classify(pos))

			var moves []engine.Move
			if len(args) == 1 {
				sq, err := engine.ParseSquare(args[0])
				if err != nil {
					return err
				}
				for _, to := range engine.LegalMoves(pos, sq) {
					moves = append(moves, engine.Move{From: sq, To: to})
				}
			} else {
				moves = engine.AllLegalMoves(pos, pos.SideToMove())
			}

			names := make([]string, len(moves))
			for i, m := range moves {
				names[i] = m.String()
			}
			fmt.Fprintf(out, "moves (%d): %s\n", len(moves), strings.Join(names, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&fen, "fen", engine.StartFEN, "Position to inspect")

	return cmd
}
