// handlers/debug.go - env-gated helpers for development builds
package handlers

import (
	"os"

	"winup/game"
	"winup/middleware"

	"github.com/gofiber/fiber/v2"
)

// DebugEnabled reports whether the debug endpoints are switched on.
// They are off unless DEBUG_ENDPOINTS=true and never available in
// production.
func DebugEnabled() bool {
	return os.Getenv("DEBUG_ENDPOINTS") == "true" && os.Getenv("APP_ENV") != "production"
}

func debugGuard(c *fiber.Ctx) error {
	if !DebugEnabled() {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Not found",
		})
	}
	return c.Next()
}

// DebugGuard blocks the debug routes when the endpoints are disabled.
func DebugGuard() fiber.Handler {
	return debugGuard
}

type debugRankRequest struct {
	Metric string `json:"metric"`
	Rank   int    `json:"rank"`
}

// DebugSetRank pins the current user at a rank on one board. The pin
// applies to that board only; the other board keeps its real order.
func DebugSetRank(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req debugRankRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	metric := game.Metric(req.Metric)
	if !game.ValidMetric(metric) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Unknown leaderboard metric",
		})
	}
	if req.Rank < 1 || req.Rank > game.BoardCap {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Rank out of range",
		})
	}

	leaderboardService.DebugSetUserRank(metric, userID, req.Rank)
	return c.JSON(fiber.Map{
		"success": true,
		"metric":  metric,
		"rank":    req.Rank,
	})
}

// DebugResetRank clears the current user's pinned rank on one board.
func DebugResetRank(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	metric := game.Metric(c.Query("metric", string(game.MetricAds)))
	if !game.ValidMetric(metric) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Unknown leaderboard metric",
		})
	}

	leaderboardService.DebugResetUserRank(metric, userID)
	return c.JSON(fiber.Map{
		"success": true,
		"metric":  metric,
	})
}

// DebugResetProgress wipes the current user's progression state.
func DebugResetProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := progressionService.ResetProgress(userID); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to reset progression",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
