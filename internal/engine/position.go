package engine

import "strings"

// Position is a snapshot of the board, the side to move and the en-passant
// target. It is a plain value: assigning it copies the whole board, so a
// Position handed to a caller is never changed by the engine.
type Position struct {
	board        [boardSize][boardSize]Piece
	toMove       Color
	enPassant    Square
	hasEnPassant bool
}

var backRank = [boardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard starting position with White to move.
func NewPosition() Position {
	var p Position
	for col := 0; col < boardSize; col++ {
		p.board[0][col] = Piece{Color: Black, Kind: backRank[col]}
		p.board[1][col] = Piece{Color: Black, Kind: Pawn}
		p.board[6][col] = Piece{Color: White, Kind: Pawn}
		p.board[7][col] = Piece{Color: White, Kind: backRank[col]}
	}
	p.toMove = White
	return p
}

// EmptyPosition returns a position with no pieces, useful for building test
// and puzzle positions with WithPiece.
func EmptyPosition(toMove Color) Position {
	return Position{toMove: toMove}
}

// PieceAt returns the piece on sq. The boolean is false for empty or
// off-board squares.
func (p Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	piece := p.board[sq.Row][sq.Col]
	return piece, !piece.IsEmpty()
}

// IsEnemy reports whether both pieces are present and of different colors.
func (p Position) IsEnemy(a, b Piece) bool {
	return !a.IsEmpty() && !b.IsEmpty() && a.Color != b.Color
}

func (p Position) SideToMove() Color {
	return p.toMove
}

// EnPassantTarget returns the square skipped by a pawn double-step on the
// previous move, if any.
func (p Position) EnPassantTarget() (Square, bool) {
	return p.enPassant, p.hasEnPassant
}

// Board returns a copy of the grid, indexed [row][col].
func (p Position) Board() [boardSize][boardSize]Piece {
	return p.board
}

// WithPiece returns a copy of p with piece placed on sq. Off-board squares
// leave the position unchanged.
func (p Position) WithPiece(sq Square, piece Piece) Position {
	if sq.Valid() {
		p.board[sq.Row][sq.Col] = piece
	}
	return p
}

func (p Position) WithoutPiece(sq Square) Position {
	return p.WithPiece(sq, Piece{})
}

func (p Position) WithSideToMove(c Color) Position {
	p.toMove = c
	return p
}

// WithEnPassant returns a copy of p with the en-passant target set to sq, or
// cleared when sq is off the board.
func (p Position) WithEnPassant(sq Square) Position {
	p.enPassant, p.hasEnPassant = Square{}, false
	if sq.Valid() {
		p.enPassant, p.hasEnPassant = sq, true
	}
	return p
}

// String draws the board with White at the bottom.
func (p Position) String() string {
	var b strings.Builder
	for row := 0; row < boardSize; row++ {
		b.WriteByte(byte('8' - row))
		b.WriteByte(' ')
		for col := 0; col < boardSize; col++ {
			b.WriteByte(fenLetter(p.board[row][col]))
			if col < boardSize-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("  a b c d e f g h\n")
	return b.String()
}
