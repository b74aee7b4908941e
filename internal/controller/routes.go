package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-relay/internal/config"
	"github.com/benbeisheim/chess-relay/internal/middleware"
)

// Routes mounts the websocket endpoint and the REST API on app.
func Routes(app *fiber.App, gc *GameController, wsc *WebSocketController, cfg config.ServerConfig, logger *zap.Logger) {
	app.Get("/health", gc.Health)

	app.Use("/ws/*", middleware.ResolveClientAddr())
	app.Get("/ws/game/:gameId",
		middleware.WebSocketUpgrade(logger),
		wsc.RequireGame,
		websocket.New(wsc.HandleConnection, websocket.Config{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			Origins:         cfg.AllowedOrigins,
		}),
	)

	api := app.Group("/api")
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
}
