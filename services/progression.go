// services/progression.go - XP grants and level rewards
package services

import (
	"errors"
	"time"

	"winup/game"
	"winup/gameconfig"
	"winup/models"

	"gorm.io/gorm"
)

// XPAction names the user actions that earn XP.
type XPAction string

const (
	ActionAdWatched      XPAction = "ad_watched"
	ActionTicketPurchase XPAction = "ticket_purchase"
	ActionReferral       XPAction = "referral"
	ActionDailyLogin     XPAction = "daily_login"
)

// ProgressionService applies XP to users through the level engine and
// pays one-time level rewards in credits.
type ProgressionService struct {
	db  *gorm.DB
	cfg *gameconfig.Provider
	hub *Hub
}

func NewProgressionService(db *gorm.DB, cfg *gameconfig.Provider, hub *Hub) *ProgressionService {
	return &ProgressionService{db: db, cfg: cfg, hub: hub}
}

// XPFor resolves the configured XP amount for an action, 0 for unknown
// actions.
func (s *ProgressionService) XPFor(action XPAction) int {
	xp := s.cfg.Current().XP
	switch action {
	case ActionAdWatched:
		return xp.AdWatched
	case ActionTicketPurchase:
		return xp.TicketPurchase
	case ActionReferral:
		return xp.Referral
	case ActionDailyLogin:
		return xp.DailyLogin
	}
	return 0
}

// GrantXP adds XP to a user inside a transaction and returns the
// level-up, if any. The level reward is credited atomically with the
// XP so a crash cannot double-pay.
func (s *ProgressionService) GrantXP(userID uint, amount int) (*game.LevelUp, error) {
	if amount <= 0 {
		return nil, nil
	}

	var levelUp *game.LevelUp
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		engine := game.NewLevelEngine(s.cfg.Current(), user.LevelState(), nil)
		levelUp = engine.AddXP(amount)
		user.ApplyLevelState(engine.State())
		if levelUp != nil {
			user.Credits += levelUp.CreditReward
		}
		user.UpdatedAt = time.Now()
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	if levelUp != nil {
		LevelUps.Inc()
		if s.hub != nil {
			s.hub.Broadcast(Event{Type: EventLevelUp, Data: map[string]any{
				"user_id":       userID,
				"old_level":     levelUp.OldLevel,
				"new_level":     levelUp.NewLevel,
				"level_name":    levelUp.LevelName,
				"credit_reward": levelUp.CreditReward,
			}})
		}
	}
	return levelUp, nil
}

// GrantActionXP grants the configured XP for an action.
func (s *ProgressionService) GrantActionXP(userID uint, action XPAction) (*game.LevelUp, error) {
	return s.GrantXP(userID, s.XPFor(action))
}

// GrantReferralRewards pays both sides of a referral: the new user
// gets a bonus ticket source handled by the draw service; the referrer
// gets credits and XP per the config tables.
func (s *ProgressionService) GrantReferralRewards(referrerID uint) error {
	cfg := s.cfg.Current()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var referrer models.User
		if err := tx.First(&referrer, referrerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		referrer.Credits += cfg.Referral.CreditsPerReferral
		return tx.Save(&referrer).Error
	})
	if err != nil {
		return err
	}
	_, err = s.GrantXP(referrerID, cfg.Referral.XPPerReferral)
	return err
}

// Progress summarizes a user's ladder position for the UI.
type Progress struct {
	Level           int     `json:"level"`
	LevelName       string  `json:"level_name"`
	TotalXP         int     `json:"total_xp"`
	CurrentXP       int     `json:"current_xp"`
	XPForNextLevel  int     `json:"xp_for_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
	Credits         int     `json:"credits"`
}

// GetProgress computes the progression summary for a user.
func (s *ProgressionService) GetProgress(userID uint) (*Progress, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	engine := game.NewLevelEngine(s.cfg.Current(), user.LevelState(), nil)
	return &Progress{
		Level:           engine.Current().Level,
		LevelName:       engine.Current().Name,
		TotalXP:         user.TotalXP,
		CurrentXP:       engine.CurrentXP(),
		XPForNextLevel:  engine.XPForNextLevel(),
		ProgressPercent: engine.ProgressToNextLevel(),
		Credits:         user.Credits,
	}, nil
}

// ResetProgress wipes a user's progression state. Debug only.
func (s *ProgressionService) ResetProgress(userID uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"level":                      0,
		"total_xp":                   0,
		"claimed_level_rewards_json": "",
		"current_streak":             0,
		"last_claim_date":            nil,
	}).Error
}
