package service

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
)

func TestGameServiceFlow(t *testing.T) {
	gs := NewGameService(newTestManager(t))

	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame() error: %v", err)
	}
	if c, err := gs.JoinGame(gameID, "alice"); err != nil || c != engine.White {
		t.Fatalf("JoinGame(alice) = %v, %v", c, err)
	}
	if c, err := gs.JoinGame(gameID, "bob"); err != nil || c != engine.Black {
		t.Fatalf("JoinGame(bob) = %v, %v", c, err)
	}

	moves, err := gs.LegalMoves(gameID, "g1")
	if err != nil {
		t.Fatalf("LegalMoves(g1) error: %v", err)
	}
	want := []engine.Square{{Row: 5, Col: 7}, {Row: 5, Col: 5}}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("LegalMoves(g1) mismatch (-want +got):\n%s", diff)
	}

	moves, err = gs.LegalMoves(gameID, "e4")
	if err != nil || moves == nil || len(moves) != 0 {
		t.Errorf("LegalMoves(e4) = %v, %v, want empty list", moves, err)
	}
	if _, err := gs.LegalMoves(gameID, "z9"); !errors.Is(err, engine.ErrInvalidSquare) {
		t.Errorf("LegalMoves(z9) error = %v, want ErrInvalidSquare", err)
	}

	move := model.WSMove{From: engine.Square{Row: 7, Col: 6}, To: engine.Square{Row: 5, Col: 5}}
	if err := gs.HandleMove(gameID, "bob", move); !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("HandleMove(bob) error = %v, want ErrNotYourTurn", err)
	}
	if err := gs.HandleMove(gameID, "alice", move); err != nil {
		t.Fatalf("HandleMove(alice) error: %v", err)
	}

	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatalf("GetGameState() error: %v", err)
	}
	if state.ToMove != engine.Black || len(state.Moves) != 1 {
		t.Errorf("state after Nf3: to move %v, moves %v", state.ToMove, state.Moves)
	}
}
