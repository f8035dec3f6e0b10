package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/service"
	"github.com/Yash182023/Chess-Mania/internal/storage"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps service and game errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, storage.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, engine.ErrInvalidSquare):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	color, err := gc.gameService.JoinGame(gameID, playerID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(gameState)
}

// LegalMoves answers GET /:gameId/moves?square=e2.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Query("square")
	if square == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "square is required",
		})
	}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

// moveRequest accepts squares as names ("e2") in HTTP bodies.
type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	from, err := engine.ParseSquare(req.From)
	if err != nil {
		return errorResponse(c, err)
	}
	to, err := engine.ParseSquare(req.To)
	if err != nil {
		return errorResponse(c, err)
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, playerID(c), model.WSMove{From: from, To: to}); err != nil {
		return errorResponse(c, err)
	}

	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Resign(gameID, playerID(c)); err != nil {
		return errorResponse(c, err)
	}
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Reset(gameID, playerID(c)); err != nil {
		return errorResponse(c, err)
	}
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// MatchmakingStatus tells a player queued over REST which game they were
// matched into.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	queued, gameID := gc.gameService.MatchmakingStatus(playerID(c))
	return c.JSON(fiber.Map{
		"queued": queued,
		"gameId": gameID,
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	removed := gc.gameService.LeaveMatchmaking(playerID(c))
	return c.JSON(fiber.Map{
		"removed": removed,
	})
}

func (gc *GameController) ListArchive(c *fiber.Ctx) error {
	games, err := gc.gameService.ListArchive()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(games)
}

func (gc *GameController) GetArchivedGame(c *fiber.Ctx) error {
	rec, err := gc.gameService.GetArchivedGame(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(rec)
}
