// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"winup/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Prize{},
		&models.Draw{},
		&models.Ticket{},
		&models.StreakClaim{},
		&models.LeaderboardSnapshot{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes AutoMigrate does not cover
func createIndexes() {
	db := GetDB()

	// Leaderboard queries sort by these counters
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_ads_watched ON users(ads_watched DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_wins ON users(wins DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Ticket lookups per user and prize
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tickets_user_prize ON tickets(user_id, prize_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tickets_draw ON tickets(draw_id)")

	// Countdown monitor scans scheduled draws by time
	db.Exec("CREATE INDEX IF NOT EXISTS idx_draws_status_scheduled ON draws(status, scheduled_at)")

	// One claim per user per day
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_streak_claims_user_date ON streak_claims(user_id, claim_date)")
}
