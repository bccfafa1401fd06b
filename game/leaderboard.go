// game/leaderboard.go - Ranked board maintenance
package game

import (
	"math/rand"
	"sort"
	"time"
)

// Metric names one of the two independent leaderboards.
type Metric string

const (
	MetricAds  Metric = "ads"
	MetricWins Metric = "wins"
)

// ValidMetric reports whether m names a known board.
func ValidMetric(m Metric) bool {
	return m == MetricAds || m == MetricWins
}

// BoardCap is the maximum number of visible entries per board.
const BoardCap = 100

// Entry is one row of a leaderboard.
type Entry struct {
	ID            uint   `json:"id"`
	Rank          int    `json:"rank"`
	UserID        uint   `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Level         int    `json:"level"`
	Value         int    `json:"value"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// Renumber rewrites every rank to index+1. Call after any mutation.
func Renumber(entries []Entry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// MergeCurrentUser splices a live current-user entry into a cached
// board snapshot. If the user is already present only its display
// fields are refreshed, preserving position. A user whose value would
// rank below the board cap is simply not added.
func MergeCurrentUser(entries []Entry, current Entry) []Entry {
	current.IsCurrentUser = true

	for i := range entries {
		if entries[i].UserID == current.UserID {
			entries[i].DisplayName = current.DisplayName
			entries[i].Level = current.Level
			entries[i].Value = current.Value
			entries[i].IsCurrentUser = true
			return entries
		}
	}

	rank := 1
	for _, e := range entries {
		if e.Value > current.Value {
			rank++
		}
	}
	if rank > BoardCap {
		return entries
	}

	idx := rank - 1
	if idx > len(entries) {
		idx = len(entries)
	}
	entries = append(entries, Entry{})
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = current

	Renumber(entries)
	if len(entries) > BoardCap {
		entries = entries[:BoardCap]
	}
	return entries
}

// ApplyRandomVariation perturbs values slightly to simulate live
// movement between refreshes, then re-sorts. The sort is stable so
// ties keep their prior order; only the perturbation itself can change
// relative positions.
func ApplyRandomVariation(entries []Entry, rng *rand.Rand) []Entry {
	for i := range entries {
		delta := rng.Intn(3) - 1
		entries[i].Value += delta
		if entries[i].Value < 0 {
			entries[i].Value = 0
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	Renumber(entries)
	return entries
}

// StaleSinceMidnight reports whether lastUpdated predates the most
// recent local midnight, i.e. the snapshot belongs to a previous day.
func StaleSinceMidnight(lastUpdated, now time.Time) bool {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return lastUpdated.Before(midnight)
}
