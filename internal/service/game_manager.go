package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/storage"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Archive stores finished games. *storage.Storage implements it.
type Archive interface {
	SaveGame(rec storage.GameRecord) error
	LoadGame(id string) (storage.GameRecord, error)
	ListGames() ([]storage.GameRecord, error)
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	matchedGames     map[string]string // playerID -> game from the last match
	archive          Archive
	clockTime        time.Duration
	mu               sync.RWMutex
}

// NewGameManager creates a manager whose games use clockTime per side. A nil
// archive keeps finished games in memory only.
func NewGameManager(archive Archive, clockTime time.Duration) *GameManager {
	if clockTime <= 0 {
		clockTime = model.DefaultClockTime
	}
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matchedGames:     make(map[string]string),
		archive:          archive,
		clockTime:        clockTime,
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	logrus.WithField("player", playerID).Debug("registering matchmaking channel")

	// Replace any channel left over from an earlier connection.
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	logrus.WithField("player", playerID).Debug("unregistering matchmaking channel")

	// The channel is closed by whoever removes it from the map; a channel that
	// was already delivered to or replaced is no longer ours to touch.
	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
		close(ch)
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest-waiting players into a new game. It
// reports whether a game was created.
func (gm *GameManager) matchOnce() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, err := gm.queue.GetNextPair()
	if err != nil {
		return false
	}

	gameID := uuid.New().String()
	game := gm.newGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		logrus.WithError(err).Error("error adding player to game")
		return false
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		logrus.WithError(err).Error("error adding player to game")
		return false
	}
	gm.games[gameID] = game
	gm.matchedGames[player1.ID] = gameID
	gm.matchedGames[player2.ID] = gameID
	logrus.WithFields(logrus.Fields{
		"game":  gameID,
		"white": player1.ID,
		"black": player2.ID,
	}).Info("matched players")

	sent1 := gm.sendMatchEvent(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := gm.sendMatchEvent(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	if !sent1 || !sent2 {
		logrus.WithField("game", gameID).Warn("failed to notify all players of match")
	}
	return true
}

// sendMatchEvent delivers the event and retires the channel. Callers hold gm.mu.
func (gm *GameManager) sendMatchEvent(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- mustJSON(event):
		logrus.WithField("player", playerID).Debug("sent match found event")
		return true
	default:
		return false
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// newGame builds a game wired to the archive.
func (gm *GameManager) newGame(gameID string) *model.Game {
	game := model.NewGameWithClock(gameID, gm.clockTime)
	game.OnFinish(gm.archiveGame)
	return game
}

func (gm *GameManager) archiveGame(state model.GameState) {
	if gm.archive == nil {
		return
	}
	rec := storage.GameRecord{
		ID:        state.ID,
		White:     state.Players.White.ID,
		Black:     state.Players.Black.ID,
		Moves:     state.Moves,
		Winner:    state.Winner,
		FinalFEN:  state.FEN,
		StartedAt: state.StartedAt,
	}
	if state.Resolve != nil {
		rec.Result = string(*state.Resolve)
	}
	if state.EndedAt != nil {
		rec.EndedAt = *state.EndedAt
	}
	// A reset game reuses its ID; keep each finished game separately.
	rec.ID = fmt.Sprintf("%s.%d", state.ID, state.StartedAt.UnixNano())

	if err := gm.archive.SaveGame(rec); err != nil {
		logrus.WithError(err).WithField("game", state.ID).Error("failed to archive game")
		return
	}
	logrus.WithFields(logrus.Fields{"game": state.ID, "record": rec.ID}).Info("archived game")
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = gm.newGame(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	err := gm.queue.AddPlayer(model.Player{ID: playerID})
	if err != nil {
		logrus.WithError(err).WithField("player", playerID).Debug("error adding player to matchmaking queue")
		return err
	}
	delete(gm.matchedGames, playerID)
	return nil
}

// MatchmakingStatus reports whether the player is still queued and, once
// paired, the game they were matched into. Players queued without a match
// channel poll this to find their game.
func (gm *GameManager) MatchmakingStatus(playerID string) (queued bool, gameID string) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return gm.queue.Contains(playerID), gm.matchedGames[playerID]
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, sq engine.Square) ([]engine.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(sq), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move engine.Move) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gm *GameManager) Reset(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) ArchivedGames() ([]storage.GameRecord, error) {
	if gm.archive == nil {
		return []storage.GameRecord{}, nil
	}
	return gm.archive.ListGames()
}

func (gm *GameManager) ArchivedGame(id string) (storage.GameRecord, error) {
	if gm.archive == nil {
		return storage.GameRecord{}, storage.ErrGameNotFound
	}
	return gm.archive.LoadGame(id)
}
