package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// StartFEN is the FEN string for the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ErrInvalidFEN indicates a malformed FEN string.
var ErrInvalidFEN = errors.New("invalid FEN string")

// ParseFEN builds a Position from a FEN string. Only the placement, side to
// move and en-passant fields are used; castling rights and move clocks are
// accepted and ignored.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return Position{}, fmt.Errorf("empty FEN string: %w", ErrInvalidFEN)
	}

	var p Position
	if err := parsePlacement(&p, parts[0]); err != nil {
		return Position{}, err
	}

	p.toMove = White
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
		case "b":
			p.toMove = Black
		default:
			return Position{}, fmt.Errorf("side to move %q: %w", parts[1], ErrInvalidFEN)
		}
	}

	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, fmt.Errorf("en passant %q: %w", parts[3], ErrInvalidFEN)
		}
		p = p.WithEnPassant(sq)
	}

	return p, nil
}

func parsePlacement(p *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != boardSize {
		return fmt.Errorf("expected %d ranks, got %d: %w", boardSize, len(ranks), ErrInvalidFEN)
	}

	for row, rank := range ranks {
		col := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			piece, ok := pieceFromLetter(ch)
			if !ok {
				return fmt.Errorf("unknown piece %q: %w", ch, ErrInvalidFEN)
			}
			if col >= boardSize {
				return fmt.Errorf("rank %d too long: %w", boardSize-row, ErrInvalidFEN)
			}
			p.board[row][col] = piece
			col++
		}
		if col != boardSize {
			return fmt.Errorf("rank %d has %d files: %w", boardSize-row, col, ErrInvalidFEN)
		}
	}
	return nil
}

func pieceFromLetter(ch rune) (Piece, bool) {
	if ch > unicode.MaxASCII {
		return Piece{}, false
	}
	color := White
	if unicode.IsLower(ch) {
		color = Black
	}
	upper := byte(unicode.ToUpper(ch))
	for k := Pawn; k <= King; k++ {
		if k.Letter() == upper {
			return Piece{Color: color, Kind: k}, true
		}
	}
	return Piece{}, false
}

func fenLetter(piece Piece) byte {
	if piece.IsEmpty() {
		return '.'
	}
	letter := piece.Kind.Letter()
	if piece.Color == Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// FEN renders the position. Castling is always "-" since the engine has no
// castling, and the move clocks are written as "0 1".
func (p Position) FEN() string {
	var b strings.Builder
	for row := 0; row < boardSize; row++ {
		empty := 0
		for col := 0; col < boardSize; col++ {
			piece := p.board[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteByte(fenLetter(piece))
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if row < boardSize-1 {
			b.WriteByte('/')
		}
	}

	if p.toMove == White {
		b.WriteString(" w - ")
	} else {
		b.WriteString(" b - ")
	}

	if ep, ok := p.EnPassantTarget(); ok {
		b.WriteString(ep.String())
	} else {
		b.WriteByte('-')
	}
	b.WriteString(" 0 1")
	return b.String()
}
