package model

import (
	"github.com/Yash182023/Chess-Mania/internal/engine"
)

// WSMove is a move as sent by a client.
type WSMove struct {
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
}

func (m WSMove) Move() engine.Move {
	return engine.Move{From: m.From, To: m.To}
}

// Ply records one applied move with what it captured.
type Ply struct {
	Piece         *Piece        `json:"piece"`
	From          engine.Square `json:"from"`
	To            engine.Square `json:"to"`
	CapturedPiece *Piece        `json:"capturedPiece"`
	EnPassant     bool          `json:"enPassant"`
	Promotion     engine.Kind   `json:"promotion,omitempty"`
}

// MovePair is one row of the move list: White's ply and Black's reply.
type MovePair struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}
