package model

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNoPiece       = errors.New("no piece at from square")
	ErrIllegalMove   = errors.New("invalid move, not legal")
	ErrGameOver      = errors.New("game is over")
	ErrAlreadyQueued = errors.New("player already in queue")
	ErrQueueTooSmall = errors.New("not enough players queued")
	ErrUnauthorized  = errors.New("not authorized to join this game")
)
