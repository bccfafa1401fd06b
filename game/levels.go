// game/levels.go - Level/XP progression engine
package game

import (
	"winup/gameconfig"
)

// LevelState is the persistent progression state for one user.
// ClaimedLevelRewards guarantees each level's one-time credit reward
// is granted at most once even if XP is re-evaluated on re-login.
type LevelState struct {
	TotalXP             int
	Level               int
	ClaimedLevelRewards map[int]bool
}

// NewLevelState returns the state of a brand-new user.
func NewLevelState() *LevelState {
	return &LevelState{ClaimedLevelRewards: make(map[int]bool)}
}

// LevelUp describes a level boundary crossing with its one-time reward.
type LevelUp struct {
	OldLevel     int
	NewLevel     int
	LevelName    string
	CreditReward int
}

// NotifyFunc receives level-up events for the UI overlay. May be nil.
type NotifyFunc func(LevelUp)

// LevelEngine converts accumulated XP into discrete levels and grants
// one-time level rewards. Construct one per user with the active config
// and the user's persisted state; all mutations go through AddXP.
type LevelEngine struct {
	cfg    gameconfig.Config
	state  *LevelState
	notify NotifyFunc
}

func NewLevelEngine(cfg gameconfig.Config, state *LevelState, notify NotifyFunc) *LevelEngine {
	if state.ClaimedLevelRewards == nil {
		state.ClaimedLevelRewards = make(map[int]bool)
	}
	// Re-derive the level in case the table changed since last persist.
	state.Level = LevelForXP(cfg.Levels, state.TotalXP).Level
	return &LevelEngine{cfg: cfg, state: state, notify: notify}
}

// LevelForXP returns the unique level whose range contains totalXP:
// the greatest level with MinXP <= totalXP. Total for any XP >= 0 on a
// validated table.
func LevelForXP(levels []gameconfig.LevelDefinition, totalXP int) gameconfig.LevelDefinition {
	if totalXP < 0 {
		totalXP = 0
	}
	current := levels[0]
	for _, l := range levels {
		if l.MinXP <= totalXP {
			current = l
		} else {
			break
		}
	}
	return current
}

// State exposes the underlying state for persistence.
func (e *LevelEngine) State() *LevelState { return e.state }

// Current returns the definition of the user's current level.
func (e *LevelEngine) Current() gameconfig.LevelDefinition {
	return LevelForXP(e.cfg.Levels, e.state.TotalXP)
}

// CurrentXP is the XP accumulated inside the current level.
func (e *LevelEngine) CurrentXP() int {
	return e.state.TotalXP - e.Current().MinXP
}

// AddXP grants XP and returns a LevelUp if an unclaimed level boundary
// was crossed, nil otherwise. Crossing several boundaries in one call
// rewards only the final level; intermediate levels are marked claimed
// without paying out, so they can never be collected retroactively.
func (e *LevelEngine) AddXP(amount int) *LevelUp {
	if amount <= 0 {
		return nil
	}

	oldLevel := e.Current()
	e.state.TotalXP += amount
	newLevel := e.Current()
	e.state.Level = newLevel.Level

	if newLevel.Level <= oldLevel.Level {
		return nil
	}

	for lvl := oldLevel.Level + 1; lvl < newLevel.Level; lvl++ {
		e.state.ClaimedLevelRewards[lvl] = true
	}

	if e.state.ClaimedLevelRewards[newLevel.Level] {
		return nil
	}
	e.state.ClaimedLevelRewards[newLevel.Level] = true

	up := LevelUp{
		OldLevel:     oldLevel.Level,
		NewLevel:     newLevel.Level,
		LevelName:    newLevel.Name,
		CreditReward: newLevel.CreditReward,
	}
	if e.notify != nil {
		e.notify(up)
	}
	return &up
}

// ProgressToNextLevel returns the percentage [0, 100] of the current
// level range already covered. Clamped so the sentinel top range never
// reports above 100.
func (e *LevelEngine) ProgressToNextLevel() float64 {
	cur := e.Current()
	span := cur.MaxXP - cur.MinXP
	if span <= 0 {
		return 100
	}
	pct := float64(e.state.TotalXP-cur.MinXP) / float64(span) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// XPForNextLevel returns how much XP is still needed to reach the next
// level, 0 at the top level.
func (e *LevelEngine) XPForNextLevel() int {
	cur := e.Current()
	if cur.Level == e.cfg.Levels[len(e.cfg.Levels)-1].Level {
		return 0
	}
	remaining := cur.MaxXP - e.state.TotalXP
	if remaining < 0 {
		return 0
	}
	return remaining
}
