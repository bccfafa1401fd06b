// models/streak.go - Daily claim audit trail
package models

import (
	"time"
)

// StreakClaim records one daily login reward, one row per user per
// calendar day.
type StreakClaim struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	User           *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ClaimDate      time.Time `json:"claim_date" gorm:"not null;index"`
	Day            int       `json:"day" gorm:"not null"`
	XPAwarded      int       `json:"xp_awarded" gorm:"default:0"`
	CreditsAwarded int       `json:"credits_awarded" gorm:"default:0"`
	IsWeeklyBonus  bool      `json:"is_weekly_bonus" gorm:"default:false"`
	WasRecovered   bool      `json:"was_recovered" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
}

func (StreakClaim) TableName() string {
	return "streak_claims"
}
