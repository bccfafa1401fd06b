// handlers/config.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetGameConfig returns the active reward tables so the client engine
// stays in sync with the server.
func GetGameConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"config":  cfgProvider.Current(),
	})
}
