package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// EnsurePlayerID reads the caller's player ID from the X-Player-ID header or
// the playerId query parameter and stores it in the "playerID" local.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			// Browsers cannot set headers on websocket upgrades.
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			logrus.WithField("path", c.Path()).Debug("request without player ID")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
