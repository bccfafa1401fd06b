package game

import (
	"testing"
	"time"

	"winup/gameconfig"
)

func streakCfg() gameconfig.StreakRewards { return gameconfig.Default().Streak }

func day(offset int) Date {
	return DateOf(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local).AddDate(0, 0, offset))
}

func TestFirstClaimStartsStreak(t *testing.T) {
	e := NewStreakEngine(streakCfg(), &StreakState{})
	res := e.CheckAndUpdate(day(0))
	if res == nil {
		t.Fatal("first claim returned nil")
	}
	if e.State().CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", e.State().CurrentStreak)
	}
	if res.XP != 10 {
		t.Errorf("daily XP = %d, want 10", res.XP)
	}
	if res.Recovery != nil {
		t.Errorf("unexpected recovery offer on first claim: %+v", res.Recovery)
	}
}

func TestClaimTwiceSameDayIsNoop(t *testing.T) {
	e := NewStreakEngine(streakCfg(), &StreakState{})
	e.CheckAndUpdate(day(0))
	if res := e.CheckAndUpdate(day(0)); res != nil {
		t.Errorf("second claim same day = %+v, want nil", res)
	}
	if e.State().CurrentStreak != 1 {
		t.Errorf("streak changed on duplicate claim: %d", e.State().CurrentStreak)
	}
}

func TestConsecutiveDayContinuesStreak(t *testing.T) {
	yesterday := day(-1)
	e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: 4, LastClaimDate: &yesterday})
	res := e.CheckAndUpdate(day(0))
	if res == nil {
		t.Fatal("claim returned nil")
	}
	if e.State().CurrentStreak != 5 {
		t.Errorf("streak = %d, want 5", e.State().CurrentStreak)
	}
	if res.Recovery != nil {
		t.Errorf("unexpected recovery offer: %+v", res.Recovery)
	}
}

func TestMissedDaysBreakStreakWithRecoveryOffer(t *testing.T) {
	threeDaysAgo := day(-3)
	e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: 12, LastClaimDate: &threeDaysAgo})
	res := e.CheckAndUpdate(day(0))
	if res == nil {
		t.Fatal("claim returned nil")
	}
	if e.State().CurrentStreak != 1 {
		t.Errorf("streak = %d, want reset to 1", e.State().CurrentStreak)
	}
	if res.Recovery == nil {
		t.Fatal("expected recovery offer after break")
	}
	if res.Recovery.MissedDays != 2 {
		t.Errorf("missed days = %d, want 2", res.Recovery.MissedDays)
	}
	if res.Recovery.PreBreakStreak != 12 {
		t.Errorf("pre-break streak = %d, want 12", res.Recovery.PreBreakStreak)
	}
	if res.Recovery.Cost != 10 {
		t.Errorf("recovery cost = %d, want 2 days x 5 credits", res.Recovery.Cost)
	}
}

func TestWeeklyBonusOnDaySeven(t *testing.T) {
	yesterday := day(-1)
	e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: 6, LastClaimDate: &yesterday})
	res := e.CheckAndUpdate(day(0))
	if res == nil {
		t.Fatal("claim returned nil")
	}
	if e.State().CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", e.State().CurrentStreak)
	}
	if !res.IsWeeklyBonus {
		t.Error("day 7 did not flag weekly bonus")
	}
	if res.Credits != 1 {
		t.Errorf("day 7 credits = %d, want 1", res.Credits)
	}
	if res.XP != 10 {
		t.Errorf("day 7 XP = %d, want 10", res.XP)
	}
	if !res.IsMilestone {
		t.Error("day 7 is a configured milestone")
	}
}

func TestNoWeeklyBonusOnOtherDays(t *testing.T) {
	yesterday := day(-1)
	for _, streak := range []int{0, 1, 4, 7, 11} {
		e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: streak, LastClaimDate: &yesterday})
		res := e.CheckAndUpdate(day(0))
		wantBonus := (streak+1)%7 == 0
		if res.IsWeeklyBonus != wantBonus {
			t.Errorf("streak %d -> %d: IsWeeklyBonus = %v, want %v",
				streak, streak+1, res.IsWeeklyBonus, wantBonus)
		}
		if !wantBonus && res.Credits != 0 {
			t.Errorf("streak %d: credits = %d on a non-bonus day", streak+1, res.Credits)
		}
	}
}

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{0, 7},
		{6, 7},
		{7, 30},
		{29, 30},
		{100, 365},
		{400, 0},
	}
	for _, tt := range tests {
		e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: tt.streak})
		if got := e.NextMilestone(); got != tt.want {
			t.Errorf("NextMilestone at streak %d = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestRecoverRestoresStreak(t *testing.T) {
	today := day(0)
	e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: 1, LastClaimDate: &today})
	offer := RecoveryOffer{MissedDays: 2, PreBreakStreak: 12, Cost: 10}

	if e.Recover(offer, 9) {
		t.Error("recovery succeeded with insufficient balance")
	}
	if e.State().CurrentStreak != 1 {
		t.Errorf("failed recovery mutated streak: %d", e.State().CurrentStreak)
	}

	if !e.Recover(offer, 10) {
		t.Fatal("recovery failed with sufficient balance")
	}
	if e.State().CurrentStreak != 13 {
		t.Errorf("recovered streak = %d, want pre-break 12 + continuation", e.State().CurrentStreak)
	}
}

func TestClaimedOnRollsOverAtMidnight(t *testing.T) {
	today := day(0)
	s := &StreakState{CurrentStreak: 3, LastClaimDate: &today}
	if !s.ClaimedOn(day(0)) {
		t.Error("ClaimedOn(today) = false after claiming today")
	}
	if s.ClaimedOn(day(1)) {
		t.Error("ClaimedOn(tomorrow) = true, flag should reset at midnight")
	}
}

func TestDaysSinceAcrossSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	// DST began 2026-03-08 in this zone, so the two local midnights are
	// only 47 hours apart.
	before := DateOf(time.Date(2026, time.March, 7, 22, 0, 0, 0, loc))
	after := DateOf(time.Date(2026, time.March, 9, 8, 0, 0, 0, loc))
	if got := after.DaysSince(before); got != 2 {
		t.Errorf("DaysSince across spring-forward = %d, want 2", got)
	}

	// And 25-hour days at fall-back must not round up.
	beforeFall := DateOf(time.Date(2026, time.October, 31, 12, 0, 0, 0, loc))
	afterFall := DateOf(time.Date(2026, time.November, 2, 12, 0, 0, 0, loc))
	if got := afterFall.DaysSince(beforeFall); got != 2 {
		t.Errorf("DaysSince across fall-back = %d, want 2", got)
	}
}

func TestMissedDayAcrossSpringForwardBreaksStreak(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	lastClaim := DateOf(time.Date(2026, time.March, 7, 21, 0, 0, 0, loc))
	e := NewStreakEngine(streakCfg(), &StreakState{CurrentStreak: 5, LastClaimDate: &lastClaim})

	// 2026-03-08 was skipped; the transition day was 23 hours long.
	res := e.CheckAndUpdate(DateOf(time.Date(2026, time.March, 9, 9, 0, 0, 0, loc)))
	if res == nil {
		t.Fatal("claim returned nil")
	}
	if e.State().CurrentStreak != 1 {
		t.Errorf("streak = %d, want reset to 1", e.State().CurrentStreak)
	}
	if res.Recovery == nil {
		t.Fatal("missed day should carry a recovery offer")
	}
	if res.Recovery.MissedDays != 1 {
		t.Errorf("missed days = %d, want 1", res.Recovery.MissedDays)
	}
	if res.Recovery.PreBreakStreak != 5 {
		t.Errorf("pre-break streak = %d, want 5", res.Recovery.PreBreakStreak)
	}
}
