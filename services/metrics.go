// services/metrics.go - Prometheus counters for game events
package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winup_tickets_issued_total",
		Help: "Tickets issued, by source.",
	}, []string{"source"})

	DrawsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winup_draws_extracted_total",
		Help: "Prize draws extracted.",
	})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winup_level_ups_total",
		Help: "Level-up rewards granted.",
	})

	StreakClaims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winup_streak_claims_total",
		Help: "Daily streak rewards claimed.",
	})

	StreakRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winup_streak_recoveries_total",
		Help: "Paid streak recoveries applied.",
	})

	LeaderboardRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winup_leaderboard_refreshes_total",
		Help: "Full leaderboard snapshot rebuilds.",
	})
)
