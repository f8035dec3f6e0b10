package engine

// LegalMoves returns the pseudo-legal destinations of the piece on sq that
// do not leave its own king in check. Each candidate is played on a scratch
// copy of the position and discarded if the mover is then in check, which
// covers pins and discovered checks without special cases.
func LegalMoves(p Position, sq Square) []Square {
	piece, ok := p.PieceAt(sq)
	if !ok {
		return nil
	}

	var legal []Square
	for _, dest := range PseudoLegalMoves(p, sq) {
		scratch := applyMove(p, Move{From: sq, To: dest})
		if !IsInCheck(scratch, piece.Color) {
			legal = append(legal, dest)
		}
	}
	return legal
}

// AllLegalMoves returns every legal move for the pieces of color c, in board
// order.
func AllLegalMoves(p Position, c Color) []Move {
	var moves []Move
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if piece := p.board[row][col]; piece.IsEmpty() || piece.Color != c {
				continue
			}
			from := Square{Row: row, Col: col}
			for _, to := range LegalMoves(p, from) {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}

// HasLegalMove reports whether any piece of color c has a legal move. It stops
// at the first one found.
func HasLegalMove(p Position, c Color) bool {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if piece := p.board[row][col]; piece.IsEmpty() || piece.Color != c {
				continue
			}
			if len(LegalMoves(p, Square{Row: row, Col: col})) > 0 {
				return true
			}
		}
	}
	return false
}
