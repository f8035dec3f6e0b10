package engine

type direction struct {
	dRow, dCol int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// PseudoLegalMoves returns the destinations the piece on sq can reach by its
// movement pattern, without regard to the safety of its own king. Empty and
// off-board squares yield no moves.
func PseudoLegalMoves(p Position, sq Square) []Square {
	piece, ok := p.PieceAt(sq)
	if !ok {
		return nil
	}

	switch piece.Kind {
	case Pawn:
		return pawnMoves(p, sq, piece)
	case Knight:
		return stepMoves(p, sq, piece, knightDirs)
	case Bishop:
		return slideMoves(p, sq, piece, bishopDirs, nil)
	case Rook:
		return slideMoves(p, sq, piece, rookDirs, nil)
	case Queen:
		return slideMoves(p, sq, piece, bishopDirs, slideMoves(p, sq, piece, rookDirs, nil))
	case King:
		return stepMoves(p, sq, piece, kingDirs)
	default:
		return nil
	}
}

// pawnForward is the row delta of a pawn advance: White moves toward row 0.
func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return boardSize - 1
}

func pawnMoves(p Position, sq Square, piece Piece) []Square {
	var moves []Square
	dir := pawnForward(piece.Color)

	// Forward one, then two from the starting row.
	one := sq.offset(dir, 0)
	if _, occupied := p.PieceAt(one); one.Valid() && !occupied {
		moves = append(moves, one)
		two := sq.offset(2*dir, 0)
		if _, occupied := p.PieceAt(two); sq.Row == pawnStartRow(piece.Color) && two.Valid() && !occupied {
			moves = append(moves, two)
		}
	}

	ep, hasEP := p.EnPassantTarget()
	for _, dCol := range []int{-1, 1} {
		target := sq.offset(dir, dCol)
		if !target.Valid() {
			continue
		}
		victim, _ := p.PieceAt(target)
		if p.IsEnemy(piece, victim) || (hasEP && target == ep) {
			moves = append(moves, target)
		}
	}
	return moves
}

func stepMoves(p Position, sq Square, piece Piece, dirs []direction) []Square {
	var moves []Square
	for _, d := range dirs {
		target := sq.offset(d.dRow, d.dCol)
		if !target.Valid() {
			continue
		}
		if other, occupied := p.PieceAt(target); !occupied || p.IsEnemy(piece, other) {
			moves = append(moves, target)
		}
	}
	return moves
}

// slideMoves walks each direction until the edge or the first occupied
// square, which is included only when it holds an enemy.
func slideMoves(p Position, sq Square, piece Piece, dirs []direction, moves []Square) []Square {
	for _, d := range dirs {
		target := sq.offset(d.dRow, d.dCol)
		for target.Valid() {
			other, occupied := p.PieceAt(target)
			if !occupied {
				moves = append(moves, target)
			} else {
				if p.IsEnemy(piece, other) {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(d.dRow, d.dCol)
		}
	}
	return moves
}
