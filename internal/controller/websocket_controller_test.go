package controller

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/service"
	"github.com/Yash182023/Chess-Mania/internal/ws"
)

type recordingConn struct {
	written []ws.Message
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	if msg, ok := v.(ws.Message); ok {
		c.written = append(c.written, msg)
	}
	return nil
}

func (c *recordingConn) WriteMessage(int, []byte) error { return nil }
func (c *recordingConn) Close() error                   { return nil }

func newSeatedController(t *testing.T) (*WebSocketController, string) {
	t.Helper()
	gs := service.NewGameService(service.NewGameManager(nil, 0))
	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame() error: %v", err)
	}
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")
	return NewWebSocketController(gs), gameID
}

func message(t *testing.T, mt ws.MessageType, payload interface{}) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(mt, payload)
	if err != nil {
		t.Fatalf("NewMessage() error: %v", err)
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	wsc, gameID := newSeatedController(t)
	conn := &recordingConn{}

	e2 := engine.Square{Row: 6, Col: 4}
	e4 := engine.Square{Row: 4, Col: 4}

	err := wsc.handleMessage(conn, gameID, "alice", message(t, ws.MessageTypeLegalMoves, legalMovesRequest{Square: e2}))
	if err != nil {
		t.Fatalf("legalMoves error: %v", err)
	}
	if len(conn.written) != 1 || conn.written[0].Type != ws.MessageTypeLegalMoves {
		t.Fatalf("written = %+v", conn.written)
	}
	var reply legalMovesResponse
	if err := json.Unmarshal(conn.written[0].Payload, &reply); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if reply.Square != e2 || len(reply.Moves) != 2 {
		t.Errorf("reply = %+v", reply)
	}

	err = wsc.handleMessage(conn, gameID, "bob", message(t, ws.MessageTypeMove, model.WSMove{From: e2, To: e4}))
	if !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("move by bob error = %v, want ErrNotYourTurn", err)
	}
	if err := wsc.handleMessage(conn, gameID, "alice", message(t, ws.MessageTypeMove, model.WSMove{From: e2, To: e4})); err != nil {
		t.Errorf("move by alice error: %v", err)
	}
	if err := wsc.handleMessage(conn, gameID, "bob", message(t, ws.MessageTypeResign, nil)); err != nil {
		t.Errorf("resign error: %v", err)
	}
	if err := wsc.handleMessage(conn, gameID, "alice", message(t, ws.MessageTypeReset, nil)); err != nil {
		t.Errorf("reset error: %v", err)
	}
	if err := wsc.handleMessage(conn, gameID, "alice", ws.Message{Type: "dance"}); err == nil {
		t.Error("unknown message type accepted")
	}
}

func TestSendErrorIsValidJSON(t *testing.T) {
	wsc, _ := newSeatedController(t)
	conn := &recordingConn{}

	wsc.sendError(conn, model.ErrIllegalMove)

	if len(conn.written) != 1 || conn.written[0].Type != ws.MessageTypeError {
		t.Fatalf("written = %+v", conn.written)
	}
	var payload ws.ErrorPayload
	if err := json.Unmarshal(conn.written[0].Payload, &payload); err != nil {
		t.Fatalf("error payload is not JSON: %v", err)
	}
	if payload.Error != model.ErrIllegalMove.Error() {
		t.Errorf("payload = %q", payload.Error)
	}
}
