// services/leaderboard.go - Ranked boards, snapshots and rollover
package services

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"winup/game"
	"winup/models"

	"gorm.io/gorm"
)

// LeaderboardService maintains the two ranked boards (ads watched,
// wins) from cached snapshots, merges the caller as a live pseudo
// entry and refreshes on midnight rollover.
type LeaderboardService struct {
	db  *gorm.DB
	hub *Hub
	rng *rand.Rand

	mu sync.Mutex
	// Current-user ranks are tracked independently per metric.
	debugRanks map[game.Metric]map[uint]int

	stop chan struct{}
}

func NewLeaderboardService(db *gorm.DB, hub *Hub) *LeaderboardService {
	return &LeaderboardService{
		db:         db,
		hub:        hub,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		debugRanks: make(map[game.Metric]map[uint]int),
		stop:       make(chan struct{}),
	}
}

// Refresh rebuilds the snapshot for one metric from the users table.
func (s *LeaderboardService) Refresh(metric game.Metric) ([]game.Entry, error) {
	column := "ads_watched"
	if metric == game.MetricWins {
		column = "wins"
	}

	var users []models.User
	if err := s.db.Where("is_banned = ?", false).
		Order(column + " DESC, id ASC").
		Limit(game.BoardCap).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]game.Entry, len(users))
	for i, u := range users {
		value := u.AdsWatched
		if metric == game.MetricWins {
			value = u.Wins
		}
		entries[i] = game.Entry{
			ID:          u.ID,
			UserID:      u.ID,
			DisplayName: displayName(&u),
			Level:       u.Level,
			Value:       value,
		}
	}
	game.Renumber(entries)

	snapshot := models.LeaderboardSnapshot{Metric: string(metric), FetchedAt: time.Now()}
	if err := snapshot.SetEntries(entries); err != nil {
		return nil, err
	}
	stored := models.LeaderboardSnapshot{Metric: string(metric)}
	err := s.db.Where(models.LeaderboardSnapshot{Metric: string(metric)}).
		Assign(map[string]any{"entries_json": snapshot.EntriesJSON, "fetched_at": snapshot.FetchedAt}).
		FirstOrCreate(&stored).Error
	if err != nil {
		return nil, err
	}

	LeaderboardRefreshes.Inc()
	return entries, nil
}

// Board returns one metric's board with the caller merged in as the
// current-user entry. Stale snapshots are rebuilt first.
func (s *LeaderboardService) Board(metric game.Metric, currentUserID uint) ([]game.Entry, error) {
	entries, err := s.cachedEntries(metric)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, currentUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	value := user.AdsWatched
	if metric == game.MetricWins {
		value = user.Wins
	}
	current := game.Entry{
		ID:          user.ID,
		UserID:      user.ID,
		DisplayName: displayName(&user),
		Level:       user.Level,
		Value:       value,
	}

	if rank, ok := s.debugRank(metric, currentUserID); ok {
		return s.placeAtRank(entries, current, rank), nil
	}
	return game.MergeCurrentUser(entries, current), nil
}

// UserRank returns the caller's visible rank on a board, 0 when the
// user does not make the cap.
func (s *LeaderboardService) UserRank(metric game.Metric, userID uint) (int, error) {
	entries, err := s.Board(metric, userID)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, nil
}

func (s *LeaderboardService) cachedEntries(metric game.Metric) ([]game.Entry, error) {
	var snapshot models.LeaderboardSnapshot
	err := s.db.Where("metric = ?", string(metric)).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && game.StaleSinceMidnight(snapshot.FetchedAt, time.Now())) {
		return s.Refresh(metric)
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Entries()
}

// StartMidnightCheck refreshes both boards whenever their snapshot
// predates the most recent local midnight. Both boards are refreshed
// together.
func (s *LeaderboardService) StartMidnightCheck(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.midnightTick(now)
			}
		}
	}()
}

func (s *LeaderboardService) midnightTick(now time.Time) {
	var snapshot models.LeaderboardSnapshot
	err := s.db.Where("metric = ?", string(game.MetricAds)).First(&snapshot).Error
	if err == nil && !game.StaleSinceMidnight(snapshot.FetchedAt, now) {
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("midnight check failed: %v", err)
		return
	}

	for _, metric := range []game.Metric{game.MetricAds, game.MetricWins} {
		if _, err := s.Refresh(metric); err != nil {
			log.Printf("leaderboard refresh (%s) failed: %v", metric, err)
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(Event{Type: EventLeaderboardUpdate, Data: map[string]any{"reason": "rollover"}})
	}
}

// StartLiveVariation broadcasts perturbed board copies on an interval
// so idle clients see movement between real refreshes. Skipped while
// no clients are connected.
func (s *LeaderboardService) StartLiveVariation(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if s.hub == nil || s.hub.ClientCount() == 0 {
					continue
				}
				for _, metric := range []game.Metric{game.MetricAds, game.MetricWins} {
					if _, err := s.LiveVariation(metric); err != nil {
						log.Printf("live variation (%s) failed: %v", metric, err)
					}
				}
			}
		}
	}()
}

// Stop halts the background tickers.
func (s *LeaderboardService) Stop() {
	close(s.stop)
}

// LiveVariation perturbs a board copy to simulate live movement
// between refreshes and pushes it to connected clients. Display only;
// the stored snapshot is untouched.
func (s *LeaderboardService) LiveVariation(metric game.Metric) ([]game.Entry, error) {
	entries, err := s.cachedEntries(metric)
	if err != nil {
		return nil, err
	}
	varied := make([]game.Entry, len(entries))
	copy(varied, entries)

	s.mu.Lock()
	varied = game.ApplyRandomVariation(varied, s.rng)
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(Event{Type: EventLeaderboardUpdate, Data: map[string]any{
			"metric":  string(metric),
			"entries": varied,
		}})
	}
	return varied, nil
}

// DebugSetUserRank pins a user's rank on one board only. The other
// board is never touched.
func (s *LeaderboardService) DebugSetUserRank(metric game.Metric, userID uint, rank int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debugRanks[metric] == nil {
		s.debugRanks[metric] = make(map[uint]int)
	}
	s.debugRanks[metric][userID] = rank
}

// DebugResetUserRank removes a pinned rank from one board only.
func (s *LeaderboardService) DebugResetUserRank(metric game.Metric, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.debugRanks[metric], userID)
}

func (s *LeaderboardService) debugRank(metric game.Metric, userID uint) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rank, ok := s.debugRanks[metric][userID]
	return rank, ok
}

// placeAtRank forces the current user entry to a specific position,
// used by the debug rank injection.
func (s *LeaderboardService) placeAtRank(entries []game.Entry, current game.Entry, rank int) []game.Entry {
	current.IsCurrentUser = true
	kept := make([]game.Entry, 0, len(entries)+1)
	for _, e := range entries {
		if e.UserID != current.UserID {
			kept = append(kept, e)
		}
	}
	idx := rank - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(kept) {
		idx = len(kept)
	}
	kept = append(kept[:idx], append([]game.Entry{current}, kept[idx:]...)...)
	game.Renumber(kept)
	if len(kept) > game.BoardCap {
		kept = kept[:game.BoardCap]
	}
	return kept
}

func displayName(u *models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
