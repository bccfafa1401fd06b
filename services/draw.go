// services/draw.go - Ticket issuance, prize progress and draw extraction
package services

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"winup/game"
	"winup/gameconfig"
	"winup/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DrawService issues tickets, tracks prize ad-progress and runs the
// draw countdown monitor. Extraction is guarded twice: by the engine's
// in-memory idempotency set against repeated timer ticks, and by the
// draw status in the database against process restarts.
type DrawService struct {
	db          *gorm.DB
	cfg         *gameconfig.Provider
	progression *ProgressionService
	hub         *Hub
	engine      *game.DrawEngine

	stop chan struct{}
}

func NewDrawService(db *gorm.DB, cfg *gameconfig.Provider, progression *ProgressionService, hub *Hub) *DrawService {
	s := &DrawService{
		db:          db,
		cfg:         cfg,
		progression: progression,
		hub:         hub,
		engine:      game.NewDrawEngine(rand.New(rand.NewSource(time.Now().UnixNano()))),
		stop:        make(chan struct{}),
	}
	s.restoreExtractedGuards()
	return s
}

// restoreExtractedGuards seeds the idempotency set from storage so a
// restarted monitor never re-extracts a decided draw. Draws caught
// mid-settle (extracting, winner persisted) are settled right away:
// the animation window their delay served is gone after a restart.
func (s *DrawService) restoreExtractedGuards() {
	var draws []models.Draw
	if err := s.db.
		Where("status IN ?", []string{models.DrawStatusExtracting, models.DrawStatusCompleted}).
		Find(&draws).Error; err != nil {
		log.Printf("failed to restore draw guards: %v", err)
		return
	}

	guards, interrupted := partitionRestoredDraws(draws)
	for _, id := range guards {
		s.engine.MarkExtracted(id)
	}
	for _, draw := range interrupted {
		if err := s.settleRestored(draw); err != nil {
			log.Printf("settling restored draw %d failed: %v", draw.ID, err)
		}
	}
}

// partitionRestoredDraws splits already-decided draws into guard
// entries and the subset whose settlement a restart interrupted.
func partitionRestoredDraws(draws []models.Draw) ([]uint, []models.Draw) {
	guards := make([]uint, 0, len(draws))
	var interrupted []models.Draw
	for _, d := range draws {
		guards = append(guards, d.ID)
		if d.Status == models.DrawStatusExtracting {
			interrupted = append(interrupted, d)
		}
	}
	return guards, interrupted
}

// settleRestored finishes a draw whose settle timer was lost to a
// restart, recovering the winning number from the persisted ticket.
func (s *DrawService) settleRestored(draw models.Draw) error {
	winningNumber := 0
	if draw.WinningTicketID != nil {
		var winner models.Ticket
		if err := s.db.First(&winner, *draw.WinningTicketID).Error; err != nil {
			return err
		}
		winningNumber = winner.Number
	}
	return s.settleExtraction(draw.ID, winningNumber)
}

// CanPurchaseTicket checks the externally-enforced daily cap. The
// engine itself never rejects; every handler must gate through here
// before issuing.
func (s *DrawService) CanPurchaseTicket(user *models.User, now time.Time) bool {
	return s.ticketsIssuedToday(user, now) < s.cfg.Current().Limits.MaxTicketsPerDay
}

func (s *DrawService) ticketsIssuedToday(user *models.User, now time.Time) int {
	if user.TicketsTodayOn == nil || game.DateOf(*user.TicketsTodayOn) != game.DateOf(now) {
		return 0
	}
	return user.TicketsToday
}

// AdCooldownRemaining reports how long until the next rewarded ad may
// be watched, zero when none is pending.
func (s *DrawService) AdCooldownRemaining(user *models.User, now time.Time) time.Duration {
	if user.LastAdWatchedAt == nil {
		return 0
	}
	cooldown := time.Duration(s.cfg.Current().Limits.AdCooldownMinutes) * time.Minute
	remaining := cooldown - now.Sub(*user.LastAdWatchedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WatchAd credits a completed rewarded ad: one ticket, prize progress,
// XP. Gated by the daily cap and the ad cooldown.
func (s *DrawService) WatchAd(userID, prizeID uint, now time.Time) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !s.CanPurchaseTicket(&user, now) {
			return ErrDailyLimitReached
		}
		if s.AdCooldownRemaining(&user, now) > 0 {
			return ErrCooldownActive
		}

		var prize models.Prize
		if err := tx.Where("id = ? AND is_active = ?", prizeID, true).First(&prize).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPrizeNotFound
			}
			return err
		}

		var err error
		ticket, err = s.issueTicket(tx, &user, &prize, game.SourceAd, now)
		if err != nil {
			return err
		}

		user.AdsWatched++
		user.LastAdWatchedAt = &now
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		prize.CurrentAds++
		if err := tx.Save(&prize).Error; err != nil {
			return err
		}
		return s.maybeStartCountdown(tx, &prize, now)
	})
	if err != nil {
		return nil, err
	}

	TicketsIssued.WithLabelValues(string(game.SourceAd)).Inc()
	if _, err := s.progression.GrantActionXP(userID, ActionAdWatched); err != nil {
		return nil, err
	}
	return ticket, nil
}

// BuyTicket spends credits on an extra ticket for a prize. Gated by
// the daily cap and the user's balance.
func (s *DrawService) BuyTicket(userID, prizeID uint, now time.Time) (*models.Ticket, error) {
	cost := s.cfg.Current().TicketCostCredits

	var ticket *models.Ticket
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !s.CanPurchaseTicket(&user, now) {
			return ErrDailyLimitReached
		}
		if user.Credits < cost {
			return ErrInsufficientCredits
		}

		var prize models.Prize
		if err := tx.Where("id = ? AND is_active = ?", prizeID, true).First(&prize).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPrizeNotFound
			}
			return err
		}

		var err error
		ticket, err = s.issueTicket(tx, &user, &prize, game.SourceCredits, now)
		if err != nil {
			return err
		}

		user.Credits -= cost
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	TicketsIssued.WithLabelValues(string(game.SourceCredits)).Inc()
	if _, err := s.progression.GrantActionXP(userID, ActionTicketPurchase); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GrantBonusTicket issues a free ticket (referral signups, promotions)
// without gating on the daily cap.
func (s *DrawService) GrantBonusTicket(userID, prizeID uint, source game.TicketSource, now time.Time) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return ErrUserNotFound
		}
		var prize models.Prize
		if err := tx.Where("id = ? AND is_active = ?", prizeID, true).First(&prize).Error; err != nil {
			return ErrPrizeNotFound
		}
		var err error
		ticket, err = s.issueTicket(tx, &user, &prize, source, now)
		if err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	TicketsIssued.WithLabelValues(string(source)).Inc()
	return ticket, nil
}

// issueTicket creates the ticket row against the prize's active draw.
// Callers have already gated the action; issuance itself only assumes
// an active draw exists (creating one if the prize has none yet).
func (s *DrawService) issueTicket(tx *gorm.DB, user *models.User, prize *models.Prize, source game.TicketSource, now time.Time) (*models.Ticket, error) {
	draw, err := s.activeDraw(tx, prize)
	if err != nil {
		return nil, err
	}

	var codes []string
	if err := tx.Model(&models.Ticket{}).
		Where("user_id = ?", user.ID).
		Pluck("unique_code", &codes).Error; err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(codes))
	for _, c := range codes {
		existing[c] = true
	}

	var issued int64
	if err := tx.Model(&models.Ticket{}).Where("draw_id = ?", draw.ID).Count(&issued).Error; err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		UUID:       uuid.New().String(),
		UniqueCode: game.GenerateTicketCode(existing, rand.New(rand.NewSource(now.UnixNano()))),
		UserID:     user.ID,
		DrawID:     draw.ID,
		PrizeID:    prize.ID,
		Source:     source,
		Number:     int(issued) + 1,
		CreatedAt:  now,
	}
	if err := tx.Create(ticket).Error; err != nil {
		return nil, err
	}

	// Daily cap accounting lives on the user row.
	if s.ticketsIssuedToday(user, now) == 0 {
		user.TicketsToday = 0
	}
	user.TicketsToday++
	user.TicketsTodayOn = &now
	return ticket, nil
}

// activeDraw returns the prize's scheduled draw, creating one when a
// new round begins.
func (s *DrawService) activeDraw(tx *gorm.DB, prize *models.Prize) (*models.Draw, error) {
	var draw models.Draw
	err := tx.Where("prize_id = ? AND status = ?", prize.ID, models.DrawStatusScheduled).First(&draw).Error
	if err == nil {
		return &draw, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	draw = models.Draw{
		UUID:      uuid.New().String(),
		PrizeID:   prize.ID,
		Status:    models.DrawStatusScheduled,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

// maybeStartCountdown arms the draw countdown once the prize reaches
// its ad goal. An already armed countdown is left alone.
func (s *DrawService) maybeStartCountdown(tx *gorm.DB, prize *models.Prize, now time.Time) error {
	if prize.CurrentAds < prize.GoalAds {
		return nil
	}

	draw, err := s.activeDraw(tx, prize)
	if err != nil {
		return err
	}
	if !draw.ScheduledAt.IsZero() {
		return nil
	}

	draw.ScheduledAt = now.Add(time.Duration(s.cfg.Current().DrawCountdownMinutes) * time.Minute)
	log.Printf("🎟️  Prize %d reached its goal, draw %d scheduled for %s", prize.ID, draw.ID, draw.ScheduledAt)
	return tx.Save(draw).Error
}

// WinProbability is the displayed win chance for a user on a prize,
// derived from the same per-ticket weights the extraction samples.
func (s *DrawService) WinProbability(userID, prizeID uint) (float64, int, error) {
	var count int64
	if err := s.db.Model(&models.Ticket{}).
		Where("user_id = ? AND prize_id = ? AND is_winner = ?", userID, prizeID, false).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	return game.WinProbability(int(count), s.cfg.Current().PerTicketWinBonus), int(count), nil
}

// UserTickets lists a user's tickets, newest last. The first ticket
// per prize is the primary one whose code the UI shows.
func (s *DrawService) UserTickets(userID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&tickets).Error
	return tickets, err
}

// SimulateForUser runs the client-side fallback extraction for one
// user: a winning number picked from the draw's issued numbers. Shares
// the idempotency guard with the monitor, so a draw decided by either
// path is never re-decided. Returns nil when already extracted.
func (s *DrawService) SimulateForUser(userID, drawID uint) (*game.ExtractionResult, error) {
	if s.engine.Extracted(drawID) {
		return nil, nil
	}

	var tickets []models.Ticket
	if err := s.db.Where("draw_id = ?", drawID).Find(&tickets).Error; err != nil {
		return nil, err
	}

	allNumbers := make([]int, 0, len(tickets))
	var userNumbers []int
	for _, t := range tickets {
		allNumbers = append(allNumbers, t.Number)
		if t.UserID == userID {
			userNumbers = append(userNumbers, t.Number)
		}
	}

	res := s.engine.SimulateExtraction(drawID, allNumbers, userNumbers)
	if res == nil {
		return nil, nil
	}
	if err := s.settleExtraction(drawID, res.WinningNumber); err != nil {
		return nil, err
	}
	return res, nil
}

// StartMonitor runs the 1-second countdown scan until Stop is called.
func (s *DrawService) StartMonitor() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.tick(now)
			}
		}
	}()
}

// Stop halts the countdown monitor.
func (s *DrawService) Stop() {
	close(s.stop)
}

// tick extracts every draw whose countdown has elapsed. The engine
// guard makes repeated ticks for the same draw no-ops.
func (s *DrawService) tick(now time.Time) {
	var due []models.Draw
	if err := s.db.Where("status = ? AND scheduled_at > ? AND scheduled_at <= ?",
		models.DrawStatusScheduled, time.Time{}, now).Find(&due).Error; err != nil {
		log.Printf("draw monitor scan failed: %v", err)
		return
	}

	for _, draw := range due {
		if s.engine.Extracted(draw.ID) {
			continue
		}
		if err := s.extract(draw); err != nil {
			log.Printf("extraction of draw %d failed: %v", draw.ID, err)
		}
	}
}

// extract decides one draw: a weighted sample over all issued tickets
// (weight 1 each, matching the displayed linear probability), then the
// settle pipeline.
func (s *DrawService) extract(draw models.Draw) error {
	if s.engine.Extracted(draw.ID) {
		return nil
	}
	s.engine.MarkExtracted(draw.ID)

	var tickets []models.Ticket
	if err := s.db.Where("draw_id = ?", draw.ID).Find(&tickets).Error; err != nil {
		return err
	}

	weights := make([]game.TicketWeight, len(tickets))
	for i, t := range tickets {
		weights[i] = game.TicketWeight{TicketID: t.ID, Weight: 1}
	}

	winnerTicketID := s.engine.WeightedWinner(weights)

	// The winning ticket is persisted with the status flip so a restart
	// during the settle window can finish the draw instead of leaving
	// it stuck in extracting forever.
	var winnerRef *uint
	if winnerTicketID != 0 {
		winnerRef = &winnerTicketID
	}
	if err := s.db.Model(&models.Draw{}).
		Where("id = ? AND status = ?", draw.ID, models.DrawStatusScheduled).
		Updates(map[string]any{
			"status":            models.DrawStatusExtracting,
			"winning_ticket_id": winnerRef,
		}).Error; err != nil {
		return err
	}

	winningNumber := 0
	for _, t := range tickets {
		if t.ID == winnerTicketID {
			winningNumber = t.Number
		}
	}

	// The extracting status clears after a fixed settle delay so the
	// client can play the draw animation.
	settle := time.Duration(s.cfg.Current().ExtractionSettleSeconds) * time.Second
	time.AfterFunc(settle, func() {
		if err := s.settleExtraction(draw.ID, winningNumber); err != nil {
			log.Printf("settling draw %d failed: %v", draw.ID, err)
		}
	})
	return nil
}

// settleExtraction completes a decided draw: marks the winning ticket,
// records the winner, resets the prize counters for the next round and
// broadcasts the result.
func (s *DrawService) settleExtraction(drawID uint, winningNumber int) error {
	var winnerUserID *uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var draw models.Draw
		if err := tx.First(&draw, drawID).Error; err != nil {
			return err
		}
		if draw.Status == models.DrawStatusCompleted {
			return nil
		}

		if winningNumber > 0 {
			var winner models.Ticket
			err := tx.Where("draw_id = ? AND number = ?", drawID, winningNumber).First(&winner).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				winner.IsWinner = true
				if err := tx.Save(&winner).Error; err != nil {
					return err
				}
				draw.WinningTicketID = &winner.ID
				draw.WinnerID = &winner.UserID
				winnerUserID = &winner.UserID

				if err := tx.Model(&models.User{}).Where("id = ?", winner.UserID).
					Update("wins", gorm.Expr("wins + 1")).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		draw.Status = models.DrawStatusCompleted
		draw.CompletedAt = &now
		if err := tx.Save(&draw).Error; err != nil {
			return err
		}

		// New round: progress starts accumulating from zero again.
		return tx.Model(&models.Prize{}).Where("id = ?", draw.PrizeID).
			Update("current_ads", 0).Error
	})
	if err != nil {
		return err
	}

	DrawsExtracted.Inc()
	if s.hub != nil {
		s.hub.Broadcast(Event{Type: EventDrawResult, Data: map[string]any{
			"draw_id":        drawID,
			"winning_number": winningNumber,
			"winner_id":      winnerUserID,
		}})
	}
	return nil
}
