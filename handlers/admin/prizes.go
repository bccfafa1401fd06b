// handlers/admin/prizes.go
package admin

import (
	"winup/database"
	"winup/models"

	"github.com/gofiber/fiber/v2"
)

// GetPrizes returns all prizes, including inactive ones
func GetPrizes(c *fiber.Ctx) error {
	db := database.GetDB()

	var prizes []models.Prize
	if err := db.Order("created_at ASC").Find(&prizes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch prizes",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"prizes":  prizes,
	})
}

// CreatePrize creates a new prize
func CreatePrize(c *fiber.Ctx) error {
	db := database.GetDB()

	var prize models.Prize
	if err := c.BodyParser(&prize); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if prize.Name == "" || prize.GoalAds <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Name and a positive ad goal are required",
		})
	}

	prize.CurrentAds = 0
	if err := db.Create(&prize).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create prize",
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"prize":   prize,
	})
}

// UpdatePrize updates an existing prize
func UpdatePrize(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var prize models.Prize
	if err := db.First(&prize, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Prize not found",
		})
	}

	var updateData struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		GoalAds     int    `json:"goal_ads"`
		IsActive    *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if updateData.Name != "" {
		prize.Name = updateData.Name
	}
	if updateData.Description != "" {
		prize.Description = updateData.Description
	}
	if updateData.ImageURL != "" {
		prize.ImageURL = updateData.ImageURL
	}
	if updateData.GoalAds > 0 {
		prize.GoalAds = updateData.GoalAds
	}
	if updateData.IsActive != nil {
		prize.IsActive = *updateData.IsActive
	}

	if err := db.Save(&prize).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update prize",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"prize":   prize,
	})
}

// DeletePrize deactivates a prize. Prizes with tickets are never hard
// deleted.
func DeletePrize(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var prize models.Prize
	if err := db.First(&prize, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Prize not found",
		})
	}

	prize.IsActive = false
	if err := db.Save(&prize).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to deactivate prize",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Prize deactivated successfully",
	})
}

// GetDraws returns all draws with their prize and winner
func GetDraws(c *fiber.Ctx) error {
	db := database.GetDB()

	var draws []models.Draw
	query := db.Preload("Prize").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&draws).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch draws",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"draws":   draws,
	})
}

// CancelDraw cancels a scheduled draw
func CancelDraw(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var draw models.Draw
	if err := db.First(&draw, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Draw not found",
		})
	}

	if draw.Status != models.DrawStatusScheduled {
		return c.Status(409).JSON(fiber.Map{
			"success": false,
			"error":   "Only scheduled draws can be cancelled",
		})
	}

	draw.Status = models.DrawStatusCancelled
	if err := db.Save(&draw).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to cancel draw",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"draw":    draw,
	})
}
