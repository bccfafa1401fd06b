// handlers/handlers.go - Service wiring for the HTTP layer
package handlers

import (
	"winup/gameconfig"
	"winup/services"
)

var (
	cfgProvider        *gameconfig.Provider
	hub                *services.Hub
	progressionService *services.ProgressionService
	streakService      *services.StreakService
	drawService        *services.DrawService
	leaderboardService *services.LeaderboardService
)

// Init wires the handler package to its services. Must be called once
// before routes are registered.
func Init(
	cfg *gameconfig.Provider,
	h *services.Hub,
	progression *services.ProgressionService,
	streak *services.StreakService,
	draw *services.DrawService,
	leaderboard *services.LeaderboardService,
) {
	cfgProvider = cfg
	hub = h
	progressionService = progression
	streakService = streak
	drawService = draw
	leaderboardService = leaderboard
}
