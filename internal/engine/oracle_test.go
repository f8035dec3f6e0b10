package engine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/notnil/chess"

	"github.com/Yash182023/Chess-Mania/internal/engine"
)

// referenceMoves returns the legal moves of an independent move generator,
// with the four promotion choices folded into one (from, to) pair.
func referenceMoves(t *testing.T, fen string) []engine.Move {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("chess.FEN(%q) error: %v", fen, err)
	}
	game := chess.NewGame(opt)

	seen := make(map[engine.Move]bool)
	moves := []engine.Move{}
	for _, m := range game.ValidMoves() {
		move := engine.Move{From: fromReference(m.S1()), To: fromReference(m.S2())}
		if !seen[move] {
			seen[move] = true
			moves = append(moves, move)
		}
	}
	return moves
}

func fromReference(s chess.Square) engine.Square {
	return engine.Square{Row: 7 - int(s.Rank()), Col: int(s.File())}
}

var sortMoves = cmpopts.SortSlices(func(a, b engine.Move) bool {
	return a.String() < b.String()
})

// Castling is not part of these rules, so every position has no castling rights.
var oraclePositions = []string{
	engine.StartFEN,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w - f6 0 3",
	"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
	"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b - - 0 4",
}

func TestLegalMovesMatchReference(t *testing.T) {
	for _, fen := range oraclePositions {
		t.Run(fen, func(t *testing.T) {
			root, err := engine.ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN error: %v", err)
			}
			compareWithReference(t, root, fen)

			// One ply deeper, handing each child over through FEN.
			for _, m := range engine.AllLegalMoves(root, root.SideToMove()) {
				child, err := engine.ApplyMove(root, m)
				if err != nil {
					t.Fatalf("ApplyMove(%v) error: %v", m, err)
				}
				compareWithReference(t, child, child.FEN())
			}
		})
	}
}

func compareWithReference(t *testing.T, p engine.Position, fen string) {
	t.Helper()
	got := engine.AllLegalMoves(p, p.SideToMove())
	want := referenceMoves(t, fen)
	if diff := cmp.Diff(want, got, sortMoves, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("legal moves for %q mismatch (-reference +engine):\n%s", fen, diff)
	}
}
