// gameconfig/config.go - Game configuration tables and built-in defaults
package gameconfig

import (
	"errors"
	"fmt"
)

// MaxXPSentinel marks the open-ended top level range.
const MaxXPSentinel = 1 << 30

// LevelDefinition describes one rung of the XP ladder. Ranges are
// half-open [MinXP, MaxXP) and must be contiguous across the table.
type LevelDefinition struct {
	Level        int    `json:"level"`
	Name         string `json:"name"`
	MinXP        int    `json:"min_xp"`
	MaxXP        int    `json:"max_xp"`
	CreditReward int    `json:"credit_reward"`
}

// XPRewards maps user actions to XP amounts.
type XPRewards struct {
	AdWatched      int `json:"ad_watched"`
	TicketPurchase int `json:"ticket_purchase"`
	Referral       int `json:"referral"`
	DailyLogin     int `json:"daily_login"`
}

// StreakRewards configures the daily login streak.
type StreakRewards struct {
	DailyXP            int   `json:"daily_xp"`
	WeeklyBonusCredits int   `json:"weekly_bonus_credits"`
	WeeklyPeriod       int   `json:"weekly_period"`
	MilestoneDays      []int `json:"milestone_days"`
	RecoveryCostPerDay int   `json:"recovery_cost_per_day"`
}

// DailyLimits gate ticket issuance. Enforced by the callers of the
// draw engine, not by the engine itself.
type DailyLimits struct {
	MaxTicketsPerDay  int `json:"max_tickets_per_day"`
	AdCooldownMinutes int `json:"ad_cooldown_minutes"`
}

// ReferralRewards configures the invite program.
type ReferralRewards struct {
	CreditsPerReferral int `json:"credits_per_referral"`
	XPPerReferral      int `json:"xp_per_referral"`
}

// Config is the full rules table consumed by the engines.
type Config struct {
	Levels   []LevelDefinition `json:"levels"`
	XP       XPRewards         `json:"xp"`
	Streak   StreakRewards     `json:"streak"`
	Limits   DailyLimits       `json:"limits"`
	Referral ReferralRewards   `json:"referral"`

	// PerTicketWinBonus is the displayed win-probability gain per
	// ticket (0.005 = 0.5% each).
	PerTicketWinBonus float64 `json:"per_ticket_win_bonus"`

	// TicketCostCredits is the credit price of a purchased ticket.
	TicketCostCredits int `json:"ticket_cost_credits"`

	// DrawCountdownMinutes is how long the countdown runs once a
	// prize reaches its ad goal.
	DrawCountdownMinutes int `json:"draw_countdown_minutes"`

	// ExtractionSettleSeconds is how long a draw stays in the
	// "extracting" status before results are shown.
	ExtractionSettleSeconds int `json:"extraction_settle_seconds"`
}

// Default returns the built-in tables used whenever remote config is
// unavailable or rejected.
func Default() Config {
	return Config{
		Levels: []LevelDefinition{
			{Level: 0, Name: "Principiante", MinXP: 0, MaxXP: 1000, CreditReward: 0},
			{Level: 1, Name: "Novizio", MinXP: 1000, MaxXP: 2200, CreditReward: 5},
			{Level: 2, Name: "Apprendista", MinXP: 2200, MaxXP: 3600, CreditReward: 10},
			{Level: 3, Name: "Esperto", MinXP: 3600, MaxXP: 5200, CreditReward: 15},
			{Level: 4, Name: "Veterano", MinXP: 5200, MaxXP: 7000, CreditReward: 20},
			{Level: 5, Name: "Maestro", MinXP: 7000, MaxXP: 9000, CreditReward: 30},
			{Level: 6, Name: "Campione", MinXP: 9000, MaxXP: 11200, CreditReward: 40},
			{Level: 7, Name: "Leggenda", MinXP: 11200, MaxXP: MaxXPSentinel, CreditReward: 50},
		},
		XP: XPRewards{
			AdWatched:      25,
			TicketPurchase: 15,
			Referral:       100,
			DailyLogin:     10,
		},
		Streak: StreakRewards{
			DailyXP:            10,
			WeeklyBonusCredits: 1,
			WeeklyPeriod:       7,
			MilestoneDays:      []int{7, 30, 100, 365},
			RecoveryCostPerDay: 5,
		},
		Limits: DailyLimits{
			MaxTicketsPerDay:  10,
			AdCooldownMinutes: 5,
		},
		Referral: ReferralRewards{
			CreditsPerReferral: 3,
			XPPerReferral:      100,
		},
		PerTicketWinBonus:       0.005,
		TicketCostCredits:       10,
		DrawCountdownMinutes:    60,
		ExtractionSettleSeconds: 5,
	}
}

var (
	ErrEmptyLevelTable = errors.New("level table is empty")
)

// ValidateLevels rejects level tables that would make the level lookup
// undefined: empty tables, out-of-order levels, negative or
// non-contiguous XP ranges. A table that fails validation must never
// replace the current one.
func ValidateLevels(levels []LevelDefinition) error {
	if len(levels) == 0 {
		return ErrEmptyLevelTable
	}
	if levels[0].MinXP != 0 {
		return fmt.Errorf("first level must start at 0 XP, got %d", levels[0].MinXP)
	}
	for i, l := range levels {
		if l.Level != i {
			return fmt.Errorf("level %d out of order at index %d", l.Level, i)
		}
		if l.CreditReward < 0 {
			return fmt.Errorf("level %d has negative credit reward", l.Level)
		}
		if l.MaxXP <= l.MinXP {
			return fmt.Errorf("level %d has empty XP range [%d, %d)", l.Level, l.MinXP, l.MaxXP)
		}
		if i > 0 && l.MinXP != levels[i-1].MaxXP {
			return fmt.Errorf("level %d range is not contiguous: starts at %d, previous ends at %d",
				l.Level, l.MinXP, levels[i-1].MaxXP)
		}
	}
	return nil
}

// Validate checks the whole config. Only the level table can make
// lookups undefined; everything else just needs sane positives.
func (c Config) Validate() error {
	if err := ValidateLevels(c.Levels); err != nil {
		return err
	}
	if c.Streak.WeeklyPeriod <= 0 {
		return errors.New("weekly period must be positive")
	}
	if c.PerTicketWinBonus <= 0 || c.PerTicketWinBonus > 1 {
		return errors.New("per-ticket win bonus must be in (0, 1]")
	}
	return nil
}
