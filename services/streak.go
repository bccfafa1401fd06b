// services/streak.go - Daily login streak claims and paid recovery
package services

import (
	"errors"
	"sync"
	"time"

	"winup/game"
	"winup/gameconfig"
	"winup/models"

	"gorm.io/gorm"
)

// StreakService runs the once-per-day streak transition against
// persisted user state and keeps the per-day audit trail.
type StreakService struct {
	db          *gorm.DB
	cfg         *gameconfig.Provider
	progression *ProgressionService

	// offers remembers the most recent recovery offer per user so the
	// paid recovery endpoint can validate the purchase. Offers expire
	// when the next claim happens.
	offersMu sync.Mutex
	offers   map[uint]game.RecoveryOffer
}

func NewStreakService(db *gorm.DB, cfg *gameconfig.Provider, progression *ProgressionService) *StreakService {
	return &StreakService{
		db:          db,
		cfg:         cfg,
		progression: progression,
		offers:      make(map[uint]game.RecoveryOffer),
	}
}

// Claim runs the daily streak check for a user. Returns
// ErrAlreadyClaimed when today's reward was collected already.
func (s *StreakService) Claim(userID uint, now time.Time) (*game.StreakResult, error) {
	today := game.DateOf(now)

	var result *game.StreakResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		engine := game.NewStreakEngine(s.cfg.Current().Streak, user.StreakState())
		result = engine.CheckAndUpdate(today)
		if result == nil {
			return ErrAlreadyClaimed
		}

		user.ApplyStreakState(engine.State())
		user.Credits += result.Credits
		user.LastLogin = now
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		claim := models.StreakClaim{
			UserID:         userID,
			ClaimDate:      today.Time(),
			Day:            result.Day,
			XPAwarded:      result.XP,
			CreditsAwarded: result.Credits,
			IsWeeklyBonus:  result.IsWeeklyBonus,
		}
		return tx.Create(&claim).Error
	})
	if err != nil {
		return nil, err
	}

	s.offersMu.Lock()
	if result.Recovery != nil {
		s.offers[userID] = *result.Recovery
	} else {
		delete(s.offers, userID)
	}
	s.offersMu.Unlock()

	StreakClaims.Inc()
	// Daily XP goes through the progression service so a streak claim
	// can trigger a level-up like any other XP source.
	if _, err := s.progression.GrantXP(userID, result.XP); err != nil {
		return nil, err
	}
	return result, nil
}

// PendingRecovery returns the open recovery offer for a user, if any.
func (s *StreakService) PendingRecovery(userID uint) (game.RecoveryOffer, bool) {
	s.offersMu.Lock()
	defer s.offersMu.Unlock()
	offer, ok := s.offers[userID]
	return offer, ok
}

// Recover spends credits to restore a broken streak to its pre-break
// value plus the continuation day. Returns ErrNothingToRecover when no
// offer is open and ErrInsufficientCredits when the balance is short;
// neither mutates state.
func (s *StreakService) Recover(userID uint) (int, error) {
	s.offersMu.Lock()
	offer, ok := s.offers[userID]
	s.offersMu.Unlock()
	if !ok {
		return 0, ErrNothingToRecover
	}

	var restored int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		engine := game.NewStreakEngine(s.cfg.Current().Streak, user.StreakState())
		if !engine.Recover(offer, user.Credits) {
			return ErrInsufficientCredits
		}

		user.Credits -= offer.Cost
		user.ApplyStreakState(engine.State())
		restored = user.CurrentStreak

		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Model(&models.StreakClaim{}).
			Where("user_id = ? AND claim_date = ?", userID, engine.State().LastClaimDate.Time()).
			Update("was_recovered", true).Error
	})
	if err != nil {
		return 0, err
	}

	s.offersMu.Lock()
	delete(s.offers, userID)
	s.offersMu.Unlock()
	StreakRecoveries.Inc()
	return restored, nil
}

// Status describes the streak for the UI.
type Status struct {
	CurrentStreak   int  `json:"current_streak"`
	BestStreak      int  `json:"best_streak"`
	HasClaimedToday bool `json:"has_claimed_today"`
	NextMilestone   int  `json:"next_milestone"`
}

// GetStatus reports a user's streak state for the given instant.
func (s *StreakService) GetStatus(userID uint, now time.Time) (*Status, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	state := user.StreakState()
	engine := game.NewStreakEngine(s.cfg.Current().Streak, state)
	return &Status{
		CurrentStreak:   user.CurrentStreak,
		BestStreak:      user.BestStreak,
		HasClaimedToday: state.ClaimedOn(game.DateOf(now)),
		NextMilestone:   engine.NextMilestone(),
	}, nil
}
