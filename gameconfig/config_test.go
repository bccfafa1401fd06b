package gameconfig

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("built-in defaults failed validation: %v", err)
	}
}

func TestValidateLevelsRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		levels []LevelDefinition
	}{
		{"empty", nil},
		{"first level not at zero", []LevelDefinition{
			{Level: 0, MinXP: 100, MaxXP: 1000},
		}},
		{"gap between ranges", []LevelDefinition{
			{Level: 0, MinXP: 0, MaxXP: 1000},
			{Level: 1, MinXP: 1500, MaxXP: 3000},
		}},
		{"overlapping ranges", []LevelDefinition{
			{Level: 0, MinXP: 0, MaxXP: 1000},
			{Level: 1, MinXP: 800, MaxXP: 3000},
		}},
		{"out of order", []LevelDefinition{
			{Level: 1, MinXP: 0, MaxXP: 1000},
			{Level: 0, MinXP: 1000, MaxXP: 3000},
		}},
		{"empty range", []LevelDefinition{
			{Level: 0, MinXP: 0, MaxXP: 0},
		}},
		{"negative reward", []LevelDefinition{
			{Level: 0, MinXP: 0, MaxXP: 1000, CreditReward: -5},
		}},
	}
	for _, tt := range tests {
		if err := ValidateLevels(tt.levels); err == nil {
			t.Errorf("%s: ValidateLevels accepted a bad table", tt.name)
		}
	}
}

func TestProviderWithoutBaseURLKeepsDefaults(t *testing.T) {
	p := NewProvider("")
	p.Load(context.Background())
	if got := p.Current(); len(got.Levels) != len(Default().Levels) {
		t.Errorf("defaults not active: %d levels", len(got.Levels))
	}
}

func TestProviderFallsBackOnFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	p.Load(context.Background())
	if got := p.Current(); got.PerTicketWinBonus != Default().PerTicketWinBonus {
		t.Error("config changed despite backend failure")
	}
}

func TestProviderRejectsMalformedLevelTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/settings/game-config":
			cfg := Default()
			writeJSON(w, cfg)
		case "/settings/levels":
			// Non-contiguous ranges: must be rejected in favor of the
			// last-known-good table.
			writeJSON(w, []LevelDefinition{
				{Level: 0, Name: "A", MinXP: 0, MaxXP: 500},
				{Level: 1, Name: "B", MinXP: 900, MaxXP: 2000},
			})
		}
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	p.Load(context.Background())

	got := p.Current()
	if len(got.Levels) != len(Default().Levels) {
		t.Errorf("malformed remote table replaced defaults: %d levels", len(got.Levels))
	}
	if got.Levels[1].Name != "Novizio" {
		t.Errorf("level 1 = %q, want default Novizio", got.Levels[1].Name)
	}
}

func TestProviderAcceptsValidRemoteConfig(t *testing.T) {
	remote := Default()
	remote.PerTicketWinBonus = 0.01
	remote.Streak.DailyXP = 20

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/settings/game-config":
			writeJSON(w, remote)
		case "/settings/levels":
			writeJSON(w, remote.Levels)
		}
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	p.Load(context.Background())

	got := p.Current()
	if got.PerTicketWinBonus != 0.01 {
		t.Errorf("PerTicketWinBonus = %f, want remote 0.01", got.PerTicketWinBonus)
	}
	if got.Streak.DailyXP != 20 {
		t.Errorf("DailyXP = %d, want remote 20", got.Streak.DailyXP)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
