package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/service"
	"github.com/Yash182023/Chess-Mania/internal/ws"
)

// wsConn wraps a connection for concurrent writers. Broadcasts and replies can
// race, and the websocket library allows one writer at a time.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

type legalMovesRequest struct {
	Square engine.Square `json:"square"`
}

type legalMovesResponse struct {
	Square engine.Square   `json:"square"`
	Moves  []engine.Square `json:"moves"`
}

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)
	log := logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID})
	conn := &wsConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.WithError(err).Warn("failed to register connection")
		wsc.sendError(conn, err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithError(err).Debug("parse error")
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}

		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			log.WithError(err).WithField("type", msg.Type).Debug("handle error")
			wsc.sendError(conn, err)
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, conn)
}

func (wsc *WebSocketController) handleMessage(conn model.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeLegalMoves:
		var req legalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, req.Square.String())
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, legalMovesResponse{Square: req.Square, Moves: moves})
		if err != nil {
			return err
		}
		return conn.WriteJSON(reply)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	case ws.MessageTypeReset:
		return wsc.gameService.Reset(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn model.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	_ = conn.WriteJSON(msg)
}

// HandleMatchmaking queues the player and writes the match found event once
// the matchmaker pairs them. Closing the socket leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("wsPlayerID").(string)
	log := logrus.WithField("player", playerID)
	conn := &wsConn{conn: c}

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		wsc.sendError(conn, err)
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)
		wsc.sendError(conn, err)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			log.Debug("matchmaking channel replaced")
			return
		}
		msg := ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).Warn("failed to send match found event")
		}
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
		wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)
		log.Debug("left matchmaking")
	}
}
