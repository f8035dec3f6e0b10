package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/ws"
)

// Conn is the part of a websocket connection the game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex

	// sendMu orders writes. last is the newest state sent, by GameState.Version.
	sendMu      sync.Mutex
	last        *ws.Message
	lastVersion uint64
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// add registers conn for playerID and sends it the newest state known: state,
// unless a later version was already broadcast. A second connection for
// the same player is refused and closed, keeping the existing one.
func (gc *GameConnections) add(gameID, playerID string, conn Conn, state GameState) bool {
	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()

	gc.mu.Lock()
	if _, exists := gc.connections[playerID]; exists {
		gc.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return false
	}
	gc.connections[playerID] = conn
	gc.mu.Unlock()

	if gc.last == nil || state.Version >= gc.lastVersion {
		if !gc.record(gameID, state) {
			return true
		}
	}
	if err := conn.WriteJSON(*gc.last); err != nil {
		logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID}).WithError(err).Warn("failed to send state, dropping connection")
		gc.remove(playerID, conn)
	}
	return true
}

// remove unregisters conn, ignoring stale connections that were replaced.
func (gc *GameConnections) remove(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, exists := gc.connections[playerID]; exists && (conn == nil || current == conn) {
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) Count() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// record makes state the newest message. Callers hold sendMu.
func (gc *GameConnections) record(gameID string, state GameState) bool {
	payload, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).WithField("game", gameID).Error("failed to marshal game state")
		return false
	}
	gc.last = &ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}
	gc.lastVersion = state.Version
	return true
}

// broadcast sends state to every connection, dropping the ones that fail.
// A state older than one already sent is discarded, so callers may broadcast
// from separate goroutines and clients still see versions in order.
func (gc *GameConnections) broadcast(gameID string, state GameState) {
	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()

	if gc.last != nil && state.Version <= gc.lastVersion {
		logrus.WithFields(logrus.Fields{"game": gameID, "version": state.Version}).Trace("skipping stale state")
		return
	}
	if !gc.record(gameID, state) {
		return
	}
	msg := *gc.last

	gc.mu.RLock()
	active := make(map[string]Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		active[playerID] = conn
	}
	gc.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			logrus.WithFields(logrus.Fields{
				"game":   gameID,
				"player": playerID,
			}).WithError(err).Warn("failed to send state, dropping connection")
			gc.remove(playerID, conn)
			continue
		}
		logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Debug("sent state")
	}
}

func connID(conn Conn) string {
	return fmt.Sprintf("%p", conn)
}
