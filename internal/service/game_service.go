package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/storage"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	logrus.WithField("game", gameID).Info("created game")
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) (bool, string) {
	return gs.gameManager.MatchmakingStatus(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves lists the destinations of the piece on the named square, e.g. "e2".
func (gs *GameService) LegalMoves(gameID string, square string) ([]engine.Square, error) {
	sq, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	moves, err := gs.gameManager.LegalMoves(gameID, sq)
	if err != nil {
		return nil, err
	}
	if moves == nil {
		moves = []engine.Square{}
	}
	return moves, nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, move.Move()); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"game":   gameID,
			"player": playerID,
			"move":   move.Move().String(),
		}).Debug("move rejected")
		return err
	}

	return nil
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) Reset(gameID string, playerID string) error {
	return gs.gameManager.Reset(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Debug("registering connection")
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Debug("unregistering connection")
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) ListArchive() ([]storage.GameRecord, error) {
	return gs.gameManager.ArchivedGames()
}

func (gs *GameService) GetArchivedGame(id string) (storage.GameRecord, error) {
	return gs.gameManager.ArchivedGame(id)
}
