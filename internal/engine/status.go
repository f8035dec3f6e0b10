package engine

import "fmt"

// IsCheckmate reports whether color c is in check with no legal move.
func IsCheckmate(p Position, c Color) bool {
	return IsInCheck(p, c) && !HasLegalMove(p, c)
}

// IsStalemate reports whether color c is not in check and has no legal move.
func IsStalemate(p Position, c Color) bool {
	return !IsInCheck(p, c) && !HasLegalMove(p, c)
}

type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

var statusNames = [...]string{"ongoing", "check", "checkmate", "stalemate"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if string(text) == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Terminal reports whether the game cannot continue.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// Classify returns the status of the side to move.
func Classify(p Position) Status {
	c := p.SideToMove()
	inCheck := IsInCheck(p, c)
	hasMove := HasLegalMove(p, c)
	switch {
	case inCheck && !hasMove:
		return Checkmate
	case !hasMove:
		return Stalemate
	case inCheck:
		return Check
	default:
		return Ongoing
	}
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Promotions count once since the engine always promotes to a queen.
func Perft(p Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := AllLegalMoves(p, p.SideToMove())
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += Perft(applyMove(p, m), depth-1)
	}
	return nodes
}
