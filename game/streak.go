// game/streak.go - Daily login streak engine
package game

import (
	"time"

	"winup/gameconfig"
)

// Date is a calendar day. Streak arithmetic works on whole days in the
// user's local timezone, never on instants.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates an instant to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// DaysSince returns the whole-day distance from other to d. The
// difference is taken between UTC midnights so DST transitions, which
// make local days 23 or 25 hours long, cannot skew the count.
func (d Date) DaysSince(other Date) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b) / (24 * time.Hour))
}

// StreakState is the persistent streak state for one user.
type StreakState struct {
	CurrentStreak int
	LastClaimDate *Date
}

// ClaimedOn reports whether the daily reward was already claimed on
// the given day. This is the hasClaimedToday flag, derived so that a
// periodic day-rollover check flips it at midnight for free.
func (s *StreakState) ClaimedOn(today Date) bool {
	return s.LastClaimDate != nil && *s.LastClaimDate == today
}

// RecoveryOffer is surfaced when a streak breaks, instead of silently
// discarding progress. Cost scales linearly with the days missed.
type RecoveryOffer struct {
	MissedDays     int
	PreBreakStreak int
	Cost           int
}

// StreakResult is the reward for one daily claim.
type StreakResult struct {
	Day           int
	XP            int
	Credits       int
	IsWeeklyBonus bool
	IsMilestone   bool
	Recovery      *RecoveryOffer
}

// StreakEngine advances, breaks, and recovers daily login streaks.
type StreakEngine struct {
	cfg   gameconfig.StreakRewards
	state *StreakState
}

func NewStreakEngine(cfg gameconfig.StreakRewards, state *StreakState) *StreakEngine {
	return &StreakEngine{cfg: cfg, state: state}
}

func (e *StreakEngine) State() *StreakState { return e.state }

// CheckAndUpdate runs the once-per-day streak transition. Returns nil
// if today's reward was already claimed. On a gap of more than one day
// the streak resets to 1 and the result carries a recovery offer for
// the caller to surface.
func (e *StreakEngine) CheckAndUpdate(today Date) *StreakResult {
	if e.state.ClaimedOn(today) {
		return nil
	}

	var recovery *RecoveryOffer
	switch {
	case e.state.LastClaimDate == nil:
		e.state.CurrentStreak = 1
	default:
		days := today.DaysSince(*e.state.LastClaimDate)
		if days <= 1 {
			// days == 0 is handled by ClaimedOn above; treat clock
			// skew conservatively as a continuation.
			e.state.CurrentStreak++
		} else {
			recovery = &RecoveryOffer{
				MissedDays:     days - 1,
				PreBreakStreak: e.state.CurrentStreak,
				Cost:           e.cfg.RecoveryCostPerDay * (days - 1),
			}
			e.state.CurrentStreak = 1
		}
	}

	claimed := today
	e.state.LastClaimDate = &claimed

	result := &StreakResult{
		Day:      e.state.CurrentStreak,
		XP:       e.cfg.DailyXP,
		Recovery: recovery,
	}
	if e.cfg.WeeklyPeriod > 0 && e.state.CurrentStreak%e.cfg.WeeklyPeriod == 0 {
		result.IsWeeklyBonus = true
		result.Credits = e.cfg.WeeklyBonusCredits
	}
	for _, m := range e.cfg.MilestoneDays {
		if e.state.CurrentStreak == m {
			result.IsMilestone = true
			break
		}
	}
	return result
}

// NextMilestone returns the smallest configured milestone day strictly
// greater than the current streak, or 0 when none remain.
func (e *StreakEngine) NextMilestone() int {
	for _, m := range e.cfg.MilestoneDays {
		if m > e.state.CurrentStreak {
			return m
		}
	}
	return 0
}

// Recover restores a broken streak to its pre-break value plus the
// continuation day, in exchange for credits. Returns false without
// touching state when the balance cannot cover the cost; the caller
// (who owns the credit ledger) decides the messaging.
func (e *StreakEngine) Recover(offer RecoveryOffer, balance int) bool {
	if balance < offer.Cost {
		return false
	}
	e.state.CurrentStreak = offer.PreBreakStreak + 1
	return true
}
