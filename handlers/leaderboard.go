// handlers/leaderboard.go
package handlers

import (
	"winup/game"
	"winup/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the requested board merged with the current
// user's entry.
func GetLeaderboard(c *fiber.Ctx) error {
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

	entries, err := leaderboardService.Board(metric, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load leaderboard",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"metric":  metric,
		"entries": entries,
	})
}

// GetLeaderboardRank returns the current user's rank on a board.
func GetLeaderboardRank(c *fiber.Ctx) error {
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

	rank, err := leaderboardService.UserRank(metric, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load rank",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"metric":  metric,
		"rank":    rank,
	})
}
