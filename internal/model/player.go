package model

import (
	"github.com/Yash182023/Chess-Mania/internal/engine"
)

// Player is a matchmaking queue entry.
type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string       `json:"name"`
	Color    engine.Color `json:"color"`
	TimeLeft int          `json:"timeLeft"`
	Seated   bool         `json:"seated"`
}

type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}
