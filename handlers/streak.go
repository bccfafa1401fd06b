// handlers/streak.go
package handlers

import (
	"errors"
	"time"

	"winup/middleware"
	"winup/services"

	"github.com/gofiber/fiber/v2"
)

// GetStreak returns the current user's streak status.
func GetStreak(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	status, err := streakService.GetStatus(userID, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load streak",
		})
	}

	resp := fiber.Map{
		"success": true,
		"streak":  status,
	}
	if offer, ok := streakService.PendingRecovery(userID); ok {
		resp["recovery_offer"] = fiber.Map{
			"missed_days":      offer.MissedDays,
			"pre_break_streak": offer.PreBreakStreak,
			"cost":             offer.Cost,
		}
	}
	return c.JSON(resp)
}

// ClaimStreak runs the daily streak check-in.
func ClaimStreak(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	result, err := streakService.Claim(userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyClaimed):
			return c.Status(409).JSON(fiber.Map{
				"success": false,
				"error":   "Already claimed today",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		default:
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to claim streak",
			})
		}
	}

	resp := fiber.Map{
		"success":         true,
		"day":             result.Day,
		"xp_awarded":      result.XP,
		"credits_awarded": result.Credits,
		"is_weekly_bonus": result.IsWeeklyBonus,
		"is_milestone":    result.IsMilestone,
	}
	if result.Recovery != nil {
		resp["recovery_offer"] = fiber.Map{
			"missed_days":      result.Recovery.MissedDays,
			"pre_break_streak": result.Recovery.PreBreakStreak,
			"cost":             result.Recovery.Cost,
		}
	}
	return c.JSON(resp)
}

// RecoverStreak spends credits to restore a broken streak.
func RecoverStreak(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	restored, err := streakService.Recover(userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNothingToRecover):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "No streak recovery available",
			})
		case errors.Is(err, services.ErrInsufficientCredits):
			return c.Status(402).JSON(fiber.Map{
				"success": false,
				"error":   "Not enough credits",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		default:
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to recover streak",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"restored_streak": restored,
	})
}

// GetStreakMilestone reports the next milestone threshold.
func GetStreakMilestone(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	status, err := streakService.GetStatus(userID, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load streak",
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"current_streak": status.CurrentStreak,
		"next_milestone": status.NextMilestone,
	})
}
