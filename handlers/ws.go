// handlers/ws.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects plain HTTP requests on the websocket route.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler hands the upgraded connection to the event hub.
func WebSocketHandler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
	})
}
