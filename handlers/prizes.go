// handlers/prizes.go
package handlers

import (
	"errors"
	"time"

	"winup/database"
	"winup/middleware"
	"winup/models"
	"winup/services"

	"github.com/gofiber/fiber/v2"
)

// GetPrizes lists active prizes with their ad progress.
func GetPrizes(c *fiber.Ctx) error {
	db := database.GetDB()

	var prizes []models.Prize
	if err := db.Where("is_active = ?", true).Order("created_at ASC").Find(&prizes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load prizes",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"prizes":  prizes,
	})
}

// WatchAd records a completed ad view: issues a ticket, advances the
// prize counter and awards XP. Gated by the daily cap and ad cooldown.
func WatchAd(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	prizeID, err := c.ParamsInt("id")
	if err != nil || prizeID <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid prize id",
		})
	}

	ticket, err := drawService.WatchAd(userID, uint(prizeID), time.Now())
	if err != nil {
		return ticketError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ticket":  ticket,
	})
}

// BuyTicket purchases a ticket with credits.
func BuyTicket(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	prizeID, err := c.ParamsInt("id")
	if err != nil || prizeID <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid prize id",
		})
	}

	ticket, err := drawService.BuyTicket(userID, uint(prizeID), time.Now())
	if err != nil {
		return ticketError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ticket":  ticket,
	})
}

// GetWinProbability reports the user's current chance for a prize.
func GetWinProbability(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	prizeID, err := c.ParamsInt("id")
	if err != nil || prizeID <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid prize id",
		})
	}

	probability, count, err := drawService.WinProbability(userID, uint(prizeID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to compute probability",
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"probability":  probability,
		"ticket_count": count,
	})
}

// GetTickets lists the current user's tickets.
func GetTickets(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	tickets, err := drawService.UserTickets(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load tickets",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tickets": tickets,
	})
}

// ticketError maps the draw service sentinels to HTTP responses.
func ticketError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDailyLimitReached):
		return c.Status(429).JSON(fiber.Map{
			"success": false,
			"error":   "Daily ticket limit reached",
		})
	case errors.Is(err, services.ErrCooldownActive):
		return c.Status(429).JSON(fiber.Map{
			"success": false,
			"error":   "Ad cooldown active",
		})
	case errors.Is(err, services.ErrInsufficientCredits):
		return c.Status(402).JSON(fiber.Map{
			"success": false,
			"error":   "Not enough credits",
		})
	case errors.Is(err, services.ErrPrizeNotFound):
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Prize not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "User not found",
		})
	default:
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to issue ticket",
		})
	}
}
