// handlers/draws.go
package handlers

import (
	"winup/database"
	"winup/middleware"
	"winup/models"

	"github.com/gofiber/fiber/v2"
)

// GetDraws lists draws, newest first.
func GetDraws(c *fiber.Ctx) error {
	db := database.GetDB()

	var draws []models.Draw
	query := db.Preload("Prize").Order("created_at DESC").Limit(50)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&draws).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load draws",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"draws":   draws,
	})
}

// GetDraw returns one draw with its prize and outcome.
func GetDraw(c *fiber.Ctx) error {
	drawID, err := c.ParamsInt("id")
	if err != nil || drawID <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid draw id",
		})
	}

	db := database.GetDB()
	var draw models.Draw
	if err := db.Preload("Prize").First(&draw, drawID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Draw not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"draw":    draw,
	})
}

// SimulateDraw runs the client-side extraction fallback for a draw the
// server has not yet extracted. Shares the idempotency guard with the
// scheduled extraction so a draw is decided at most once.
func SimulateDraw(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	drawID, err := c.ParamsInt("id")
	if err != nil || drawID <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid draw id",
		})
	}

	result, err := drawService.SimulateForUser(userID, uint(drawID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to run extraction",
		})
	}
	if result == nil {
		return c.Status(409).JSON(fiber.Map{
			"success": false,
			"error":   "Draw already extracted",
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"is_winner":      result.IsWinner,
		"winning_number": result.WinningNumber,
		"user_numbers":   result.UserNumbers,
	})
}
