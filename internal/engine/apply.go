package engine

import "fmt"

// ApplyMove returns the position reached by playing m. The input position is
// not modified. The move is not checked for legality; callers validate it
// against LegalMoves first. ApplyMove fails when either square is off the
// board or the origin is empty.
func ApplyMove(p Position, m Move) (Position, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return p, fmt.Errorf("%w: move %v -> %v", ErrInvalidSquare, m.From, m.To)
	}
	if _, ok := p.PieceAt(m.From); !ok {
		return p, fmt.Errorf("%w: %v", ErrEmptyOrigin, m.From)
	}
	return applyMove(p, m), nil
}

// applyMove assumes both squares are on the board and the origin occupied.
func applyMove(p Position, m Move) Position {
	piece := p.board[m.From.Row][m.From.Col]
	isPawn := piece.Kind == Pawn

	// En passant removes the pawn beside the origin, not the one on the target.
	if ep, ok := p.EnPassantTarget(); isPawn && ok && m.To == ep {
		p.board[m.From.Row][m.To.Col] = Piece{}
	}

	p.board[m.To.Row][m.To.Col] = piece
	p.board[m.From.Row][m.From.Col] = Piece{}

	if isPawn && m.To.Row == promotionRow(piece.Color) {
		p.board[m.To.Row][m.To.Col] = Piece{Color: piece.Color, Kind: Queen}
	}

	p.enPassant, p.hasEnPassant = Square{}, false
	if isPawn && abs(m.From.Row-m.To.Row) == 2 {
		p.enPassant = Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.To.Col}
		p.hasEnPassant = true
	}

	p.toMove = p.toMove.Opposite()
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
