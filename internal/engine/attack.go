package engine

// IsSquareAttacked reports whether any piece of color by has target among
// its pseudo-legal destinations. Pseudo-legal generation is the single
// source of truth for both captures and attacks.
func IsSquareAttacked(p Position, target Square, by Color) bool {
	if !target.Valid() {
		return false
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			piece := p.board[row][col]
			if piece.IsEmpty() || piece.Color != by {
				continue
			}
			for _, dest := range PseudoLegalMoves(p, Square{Row: row, Col: col}) {
				if dest == target {
					return true
				}
			}
		}
	}
	return false
}

// FindKing returns the square of the king of color c.
func FindKing(p Position, c Color) (Square, bool) {
	king := Piece{Color: c, Kind: King}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p.board[row][col] == king {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// IsInCheck reports whether the king of color c is attacked. A position
// without that king is never in check.
func IsInCheck(p Position, c Color) bool {
	king, ok := FindKing(p, c)
	if !ok {
		return false
	}
	return IsSquareAttacked(p, king, c.Opposite())
}
