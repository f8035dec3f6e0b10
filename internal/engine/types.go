// Package engine implements the chess rules: move generation, legality
// filtering, move application and check/checkmate/stalemate detection on
// immutable Position values.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

const boardSize = 8

var (
	// ErrInvalidSquare is returned when a coordinate lies outside the board.
	ErrInvalidSquare = errors.New("invalid square")
	// ErrEmptyOrigin is returned when a move starts from an empty square.
	ErrEmptyOrigin = errors.New("no piece at origin square")
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// Kind is the closed set of piece kinds. The zero value marks an empty cell.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}
var kindLetters = [...]byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name != "" && name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

// Piece is a colored piece. The zero Piece is an empty cell.
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"type"`
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// String returns the short form used by the piece images: "wP", "bK" and so on.
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	c := byte('w')
	if p.Color == Black {
		c = 'b'
	}
	return string([]byte{c, p.Kind.Letter()})
}

// Square addresses a board cell. Row 0 is Black's back rank, row 7 is White's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the coordinate name of the square, e.g. "e2".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, boardSize-s.Row)
}

// ParseSquare reads a coordinate name such as "e2".
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	sq := Square{Row: boardSize - int(name[1]-'0'), Col: int(name[0] - 'a')}
	if name[0] < 'a' || name[1] < '1' || !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return sq, nil
}

// Move is an ordered (from, to) pair. Captures, promotion and en passant are
// inferred from the position when the move is applied.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// ParseMove reads a coordinate pair such as "e2e4".
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// MoveHistory is an append-only record of applied moves. It belongs to the
// game session; no rule consults it.
type MoveHistory struct {
	moves []Move
}

func (h *MoveHistory) Append(m Move) {
	h.moves = append(h.moves, m)
}

// Moves returns a copy of the recorded moves in order.
func (h *MoveHistory) Moves() []Move {
	out := make([]Move, len(h.moves))
	copy(out, h.moves)
	return out
}

func (h *MoveHistory) Len() int {
	return len(h.moves)
}

func (h *MoveHistory) Last() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	return h.moves[len(h.moves)-1], true
}

func (h MoveHistory) MarshalJSON() ([]byte, error) {
	moves := h.moves
	if moves == nil {
		moves = []Move{}
	}
	return json.Marshal(moves)
}
