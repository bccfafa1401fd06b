package services

import (
	"testing"

	"winup/game"
)

func debugBoard() []game.Entry {
	entries := []game.Entry{
		{UserID: 1, DisplayName: "a", Value: 90},
		{UserID: 2, DisplayName: "b", Value: 80},
		{UserID: 3, DisplayName: "c", Value: 70},
		{UserID: 4, DisplayName: "d", Value: 60},
	}
	game.Renumber(entries)
	return entries
}

func TestPlaceAtRank(t *testing.T) {
	s := NewLeaderboardService(nil, nil)
	current := game.Entry{UserID: 42, DisplayName: "me", Value: 5}

	placed := s.placeAtRank(debugBoard(), current, 2)
	if placed[1].UserID != 42 {
		t.Fatalf("user at rank 2 = %d, want 42", placed[1].UserID)
	}
	if !placed[1].IsCurrentUser {
		t.Fatal("placed entry should be flagged as current user")
	}
	for i, e := range placed {
		if e.Rank != i+1 {
			t.Fatalf("rank at index %d = %d, want %d", i, e.Rank, i+1)
		}
	}
	if len(placed) != 5 {
		t.Fatalf("board size = %d, want 5", len(placed))
	}
}

func TestPlaceAtRankReplacesExistingEntry(t *testing.T) {
	s := NewLeaderboardService(nil, nil)
	current := game.Entry{UserID: 3, DisplayName: "c", Value: 70}

	placed := s.placeAtRank(debugBoard(), current, 1)
	if placed[0].UserID != 3 {
		t.Fatalf("user at rank 1 = %d, want 3", placed[0].UserID)
	}
	// The old row for the same user must be gone.
	seen := 0
	for _, e := range placed {
		if e.UserID == 3 {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("user 3 appears %d times, want 1", seen)
	}
	if len(placed) != 4 {
		t.Fatalf("board size = %d, want 4", len(placed))
	}
}

func TestPlaceAtRankClampsOutOfRange(t *testing.T) {
	s := NewLeaderboardService(nil, nil)
	current := game.Entry{UserID: 42, Value: 5}

	placed := s.placeAtRank(debugBoard(), current, 999)
	if placed[len(placed)-1].UserID != 42 {
		t.Fatal("overlarge rank should place the user last")
	}

	placed = s.placeAtRank(debugBoard(), current, -1)
	if placed[0].UserID != 42 {
		t.Fatal("negative rank should place the user first")
	}
}

func TestDebugRanksAreIndependentPerBoard(t *testing.T) {
	s := NewLeaderboardService(nil, nil)

	s.DebugSetUserRank(game.MetricAds, 7, 3)
	if _, ok := s.debugRank(game.MetricWins, 7); ok {
		t.Fatal("rank pinned on the ads board must not leak to the wins board")
	}
	if rank, ok := s.debugRank(game.MetricAds, 7); !ok || rank != 3 {
		t.Fatalf("ads board rank = %d, %v; want 3, true", rank, ok)
	}

	s.DebugResetUserRank(game.MetricAds, 7)
	if _, ok := s.debugRank(game.MetricAds, 7); ok {
		t.Fatal("reset should clear the pinned rank")
	}

	// Resetting a board with no pins must not panic.
	s.DebugResetUserRank(game.MetricWins, 7)
}
