package game

import (
	"testing"

	"winup/gameconfig"
)

func defaultCfg() gameconfig.Config { return gameconfig.Default() }

func TestLevelForXPTotality(t *testing.T) {
	cfg := defaultCfg()
	// Every non-negative XP value maps to exactly one level: the
	// greatest level whose MinXP <= totalXP.
	for xp := 0; xp < 20000; xp += 7 {
		l := LevelForXP(cfg.Levels, xp)
		if xp < l.MinXP {
			t.Fatalf("xp %d below level %d range start %d", xp, l.Level, l.MinXP)
		}
		if xp >= l.MaxXP {
			t.Fatalf("xp %d at or above level %d range end %d", xp, l.Level, l.MaxXP)
		}
	}
}

func TestLevelForXPBoundaries(t *testing.T) {
	cfg := defaultCfg()
	tests := []struct {
		xp    int
		level int
	}{
		{0, 0},
		{999, 0},
		{1000, 1},
		{2199, 1},
		{2200, 2},
		{11200, 7},
		{1 << 25, 7},
	}
	for _, tt := range tests {
		if got := LevelForXP(cfg.Levels, tt.xp).Level; got != tt.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}
}

func TestAddXPMonotonicity(t *testing.T) {
	e := NewLevelEngine(defaultCfg(), NewLevelState(), nil)
	prevLevel, prevXP := 0, 0
	for i := 0; i < 200; i++ {
		e.AddXP(137)
		if e.State().TotalXP < prevXP {
			t.Fatalf("TotalXP decreased: %d -> %d", prevXP, e.State().TotalXP)
		}
		if e.State().Level < prevLevel {
			t.Fatalf("Level decreased: %d -> %d", prevLevel, e.State().Level)
		}
		prevLevel, prevXP = e.State().Level, e.State().TotalXP
	}
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	e := NewLevelEngine(defaultCfg(), NewLevelState(), nil)
	if up := e.AddXP(0); up != nil {
		t.Errorf("AddXP(0) = %+v, want nil", up)
	}
	if up := e.AddXP(-50); up != nil {
		t.Errorf("AddXP(-50) = %+v, want nil", up)
	}
	if e.State().TotalXP != 0 {
		t.Errorf("TotalXP = %d, want 0", e.State().TotalXP)
	}
}

func TestLevelUpScenario(t *testing.T) {
	e := NewLevelEngine(defaultCfg(), NewLevelState(), nil)

	up := e.AddXP(1000)
	if up == nil {
		t.Fatal("expected level up at 1000 XP")
	}
	if up.NewLevel != 1 || up.CreditReward != 5 || up.LevelName != "Novizio" {
		t.Errorf("first level up = %+v, want level 1, reward 5, Novizio", up)
	}

	up = e.AddXP(1200)
	if up == nil {
		t.Fatal("expected second level up at 2200 XP")
	}
	if up.NewLevel != 2 || up.CreditReward != 10 {
		t.Errorf("second level up = %+v, want level 2, reward 10", up)
	}
}

func TestOneTimeReward(t *testing.T) {
	cfg := defaultCfg()
	state := NewLevelState()
	e := NewLevelEngine(cfg, state, nil)
	up := e.AddXP(1000)
	if up == nil || up.NewLevel != 1 {
		t.Fatalf("expected level up to 1, got %+v", up)
	}

	// Re-evaluating the same state (re-login) must not pay again.
	again := NewLevelEngine(cfg, state, nil)
	if up := again.AddXP(1); up != nil {
		t.Errorf("reward granted twice: %+v", up)
	}
	if !state.ClaimedLevelRewards[1] {
		t.Error("level 1 not recorded as claimed")
	}
}

func TestMultiBoundaryCrossRewardsFinalLevelOnly(t *testing.T) {
	state := NewLevelState()
	e := NewLevelEngine(defaultCfg(), state, nil)

	// 0 -> 3700 XP crosses levels 1, 2 and 3 in one call.
	up := e.AddXP(3700)
	if up == nil {
		t.Fatal("expected level up")
	}
	if up.OldLevel != 0 || up.NewLevel != 3 {
		t.Errorf("level up = %d -> %d, want 0 -> 3", up.OldLevel, up.NewLevel)
	}
	if up.CreditReward != 15 {
		t.Errorf("reward = %d, want final level's 15", up.CreditReward)
	}
	// Skipped levels can never be collected retroactively.
	for _, lvl := range []int{1, 2} {
		if !state.ClaimedLevelRewards[lvl] {
			t.Errorf("intermediate level %d not marked claimed", lvl)
		}
	}
}

func TestAddXPNotifies(t *testing.T) {
	var got *LevelUp
	e := NewLevelEngine(defaultCfg(), NewLevelState(), func(up LevelUp) { got = &up })
	e.AddXP(1500)
	if got == nil {
		t.Fatal("notify hook not called on level up")
	}
	if got.NewLevel != 1 {
		t.Errorf("notified level = %d, want 1", got.NewLevel)
	}
}

func TestProgressToNextLevel(t *testing.T) {
	e := NewLevelEngine(defaultCfg(), NewLevelState(), nil)
	if p := e.ProgressToNextLevel(); p != 0 {
		t.Errorf("progress at 0 XP = %f, want 0", p)
	}

	e.AddXP(500)
	if p := e.ProgressToNextLevel(); p != 50 {
		t.Errorf("progress at 500/1000 XP = %f, want 50", p)
	}

	// Top level has a sentinel range; progress must clamp at 100.
	e.AddXP(20000)
	if p := e.ProgressToNextLevel(); p < 0 || p > 100 {
		t.Errorf("progress at top level = %f, want within [0, 100]", p)
	}
}

func TestXPForNextLevel(t *testing.T) {
	e := NewLevelEngine(defaultCfg(), NewLevelState(), nil)
	if got := e.XPForNextLevel(); got != 1000 {
		t.Errorf("XPForNextLevel at 0 XP = %d, want 1000", got)
	}
	e.AddXP(400)
	if got := e.XPForNextLevel(); got != 600 {
		t.Errorf("XPForNextLevel at 400 XP = %d, want 600", got)
	}
	e.AddXP(50000)
	if got := e.XPForNextLevel(); got != 0 {
		t.Errorf("XPForNextLevel at max level = %d, want 0", got)
	}
}
