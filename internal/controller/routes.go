package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/Yash182023/Chess-Mania/internal/config"
	"github.com/Yash182023/Chess-Mania/internal/middleware"
	"github.com/Yash182023/Chess-Mania/internal/service"
)

// NewApp builds the HTTP and websocket routes around gameService.
func NewApp(cfg *config.Config, gameService *service.GameService) *fiber.App {
	// Player and game IDs are kept after the request ends, so request values
	// must not alias fasthttp buffers.
	app := fiber.New(fiber.Config{
		AppName:               "chessmania",
		Immutable:             true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger())

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		Origins:         cfg.AllowedOrigins,
	}

	// Set up WebSocket routes
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleMatchmaking, wsConfig))
	wsRoutes.Get("/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gameController.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchmakingStatus)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)
	gameRoutes.Post("/:gameId/reset", gameController.Reset)

	archiveRoutes := api.Group("/archive")
	archiveRoutes.Get("/", gameController.ListArchive)
	archiveRoutes.Get("/:gameId", gameController.GetArchivedGame)

	return app
}
