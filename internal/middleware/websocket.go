package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// WebSocketUpgrade ensures that requests to websocket endpoints are valid
// upgrade attempts carrying a game id and a resolved client address.
func WebSocketUpgrade(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		addr, _ := c.Locals(LocalClientAddr).(string)
		if addr == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "client address could not be resolved",
			})
		}

		logger.Debug("websocket upgrade", zap.String("game_id", gameID), zap.String("addr", addr))
		return c.Next()
	}
}
