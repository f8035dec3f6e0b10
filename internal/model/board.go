package model

import (
	"github.com/Yash182023/Chess-Mania/internal/engine"
)

// BoardState is the client view of a position: an 8x8 grid indexed
// [row][col] with nil for empty squares, plus the king squares used for
// check highlighting.
type BoardState struct {
	Board             [][]*Piece     `json:"board"`
	BlackKingPosition *engine.Square `json:"blackKingPosition"`
	WhiteKingPosition *engine.Square `json:"whiteKingPosition"`
}

type Piece struct {
	Type     engine.Kind   `json:"type"`
	Color    engine.Color  `json:"color"`
	Position engine.Square `json:"position"`
	Image    string        `json:"image"`
}

func newPiece(p engine.Piece, sq engine.Square) *Piece {
	return &Piece{Type: p.Kind, Color: p.Color, Position: sq, Image: p.String()}
}

func newBoardState(pos engine.Position) *BoardState {
	board := &BoardState{}
	grid := pos.Board()
	for row := range grid {
		cells := make([]*Piece, len(grid[row]))
		for col, p := range grid[row] {
			if !p.IsEmpty() {
				cells[col] = newPiece(p, engine.Square{Row: row, Col: col})
			}
		}
		board.Board = append(board.Board, cells)
	}
	if sq, ok := engine.FindKing(pos, engine.White); ok {
		board.WhiteKingPosition = &sq
	}
	if sq, ok := engine.FindKing(pos, engine.Black); ok {
		board.BlackKingPosition = &sq
	}
	return board
}
