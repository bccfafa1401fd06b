// models/user.go
package models

import (
	"encoding/json"
	"time"

	"winup/game"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`
	IsAdmin     bool    `gorm:"default:false" json:"is_admin"`
	IsBanned    bool    `gorm:"default:false" json:"is_banned"`

	// Referral program
	ReferralCode string `gorm:"uniqueIndex;size:12" json:"referral_code"`
	ReferredBy   *uint  `gorm:"index" json:"referred_by,omitempty"`

	// Progression
	Level   int `gorm:"default:0" json:"level"`
	TotalXP int `gorm:"default:0" json:"total_xp"`
	Credits int `gorm:"default:0" json:"credits"`

	// One-time level rewards already granted, stored as a JSON array
	// of level numbers.
	ClaimedLevelRewardsJSON string `gorm:"type:text" json:"-"`

	// Daily login streak
	CurrentStreak int        `gorm:"default:0" json:"current_streak"`
	BestStreak    int        `gorm:"default:0" json:"best_streak"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"`

	// Raffle counters
	AdsWatched      int        `gorm:"default:0" json:"ads_watched"`
	Wins            int        `gorm:"default:0" json:"wins"`
	TicketsToday    int        `gorm:"default:0" json:"tickets_today"`
	TicketsTodayOn  *time.Time `json:"-"`
	LastAdWatchedAt *time.Time `json:"last_ad_watched_at,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Tickets      []Ticket      `gorm:"foreignKey:UserID" json:"tickets,omitempty"`
	StreakClaims []StreakClaim `gorm:"foreignKey:UserID" json:"streak_claims,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ClaimedLevelRewards decodes the granted-rewards set.
func (u *User) ClaimedLevelRewards() map[int]bool {
	claimed := make(map[int]bool)
	if u.ClaimedLevelRewardsJSON == "" {
		return claimed
	}
	var levels []int
	if err := json.Unmarshal([]byte(u.ClaimedLevelRewardsJSON), &levels); err != nil {
		return claimed
	}
	for _, l := range levels {
		claimed[l] = true
	}
	return claimed
}

// SetClaimedLevelRewards encodes the granted-rewards set.
func (u *User) SetClaimedLevelRewards(claimed map[int]bool) {
	levels := make([]int, 0, len(claimed))
	for l, ok := range claimed {
		if ok {
			levels = append(levels, l)
		}
	}
	data, err := json.Marshal(levels)
	if err != nil {
		return
	}
	u.ClaimedLevelRewardsJSON = string(data)
}

// LevelState builds the engine state from the persisted columns.
func (u *User) LevelState() *game.LevelState {
	return &game.LevelState{
		TotalXP:             u.TotalXP,
		Level:               u.Level,
		ClaimedLevelRewards: u.ClaimedLevelRewards(),
	}
}

// ApplyLevelState writes engine state back to the persisted columns.
func (u *User) ApplyLevelState(s *game.LevelState) {
	u.TotalXP = s.TotalXP
	u.Level = s.Level
	u.SetClaimedLevelRewards(s.ClaimedLevelRewards)
}

// StreakState builds the engine state from the persisted columns.
func (u *User) StreakState() *game.StreakState {
	state := &game.StreakState{CurrentStreak: u.CurrentStreak}
	if u.LastClaimDate != nil {
		d := game.DateOf(*u.LastClaimDate)
		state.LastClaimDate = &d
	}
	return state
}

// ApplyStreakState writes engine state back to the persisted columns.
func (u *User) ApplyStreakState(s *game.StreakState) {
	u.CurrentStreak = s.CurrentStreak
	if u.CurrentStreak > u.BestStreak {
		u.BestStreak = u.CurrentStreak
	}
	if s.LastClaimDate != nil {
		t := s.LastClaimDate.Time()
		u.LastClaimDate = &t
	}
}
