// gameconfig/provider.go - Remote config with local fallback
package gameconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Provider fetches game configuration from the settings backend and
// falls back to the last-known-good table, then to the built-in
// defaults. Load never returns an error to callers: a broken settings
// service must not take the game down.
type Provider struct {
	baseURL string
	client  *http.Client

	mu      sync.RWMutex
	current Config
}

// NewProvider creates a provider seeded with the default tables.
// baseURL may be empty, in which case Load is a no-op and defaults
// stay active.
func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		current: Default(),
	}
}

// Current returns the active config. Safe for concurrent readers.
func (p *Provider) Current() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Load refreshes the config from the remote settings endpoints. On any
// fetch, parse, or validation failure the previous config is kept.
func (p *Provider) Load(ctx context.Context) {
	if p.baseURL == "" {
		return
	}

	cfg := p.Current()

	var remote Config
	if err := p.fetchJSON(ctx, "/settings/game-config", &remote); err != nil {
		log.Printf("game config fetch failed, keeping current tables: %v", err)
		return
	}

	var levels []LevelDefinition
	if err := p.fetchJSON(ctx, "/settings/levels", &levels); err != nil {
		log.Printf("level table fetch failed, keeping current levels: %v", err)
		remote.Levels = cfg.Levels
	} else {
		remote.Levels = levels
	}

	if err := remote.Validate(); err != nil {
		log.Printf("rejected remote game config: %v", err)
		return
	}

	p.mu.Lock()
	p.current = remote
	p.mu.Unlock()
	log.Println("✅ Game configuration refreshed from settings backend")
}

func (p *Provider) fetchJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("settings backend returned %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}
