// handlers/progression.go
package handlers

import (
	"errors"

	"winup/middleware"
	"winup/services"

	"github.com/gofiber/fiber/v2"
)

// GetProgression returns the current user's ladder position.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	progress, err := progressionService.GetProgress(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load progression",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"progression": progress,
	})
}

type grantXPRequest struct {
	Action string `json:"action"`
}

// GrantXP awards the configured XP for a named action and reports the
// level-up, if any.
func GrantXP(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req grantXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	action := services.XPAction(req.Action)
	amount := progressionService.XPFor(action)
	if amount <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Unknown XP action",
		})
	}

	levelUp, err := progressionService.GrantXP(userID, amount)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to grant XP",
		})
	}

	resp := fiber.Map{
		"success":    true,
		"xp_awarded": amount,
	}
	if levelUp != nil {
		resp["level_up"] = fiber.Map{
			"old_level":     levelUp.OldLevel,
			"new_level":     levelUp.NewLevel,
			"level_name":    levelUp.LevelName,
			"credit_reward": levelUp.CreditReward,
		}
	}
	return c.JSON(resp)
}
