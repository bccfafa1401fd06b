package main

import (
	"context"
	"log"
	"os"
	"time"

	"winup/database"
	"winup/gameconfig"
	"winup/handlers"
	"winup/handlers/admin"
	"winup/middleware"
	"winup/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Game configuration: remote tables with built-in fallback
	cfgProvider := gameconfig.NewProvider(os.Getenv("SETTINGS_BASE_URL"))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	cfgProvider.Load(ctx)
	cancel()

	// Services
	hub := services.NewHub()
	db := database.GetDB()
	progression := services.NewProgressionService(db, cfgProvider, hub)
	streak := services.NewStreakService(db, cfgProvider, progression)
	draw := services.NewDrawService(db, cfgProvider, progression, hub)
	leaderboard := services.NewLeaderboardService(db, hub)

	handlers.Init(cfgProvider, hub, progression, streak, draw, leaderboard)

	// Background workers
	draw.StartMonitor()
	defer draw.Stop()
	leaderboard.StartMidnightCheck(time.Minute)
	leaderboard.StartLiveVariation(30 * time.Second)
	defer leaderboard.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Game configuration for the client
	api.Get("/config", handlers.GetGameConfig)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Post("/xp", handlers.GrantXP)

	// Streak routes
	streakGroup := api.Group("/streak")
	streakGroup.Use(middleware.AuthMiddleware)
	streakGroup.Get("/", handlers.GetStreak)
	streakGroup.Post("/claim", handlers.ClaimStreak)
	streakGroup.Post("/recover", handlers.RecoverStreak)
	streakGroup.Get("/milestone", handlers.GetStreakMilestone)

	// Prize and ticket routes
	prizeGroup := api.Group("/prizes")
	prizeGroup.Use(middleware.AuthMiddleware)
	prizeGroup.Get("/", handlers.GetPrizes)
	prizeGroup.Post("/:id/watch-ad", handlers.WatchAd)
	prizeGroup.Post("/:id/tickets", handlers.BuyTicket)
	prizeGroup.Get("/:id/probability", handlers.GetWinProbability)
	api.Get("/tickets", middleware.AuthMiddleware, handlers.GetTickets)

	// Draw routes
	drawGroup := api.Group("/draws")
	drawGroup.Use(middleware.AuthMiddleware)
	drawGroup.Get("/", handlers.GetDraws)
	drawGroup.Get("/:id", handlers.GetDraw)
	drawGroup.Post("/:id/simulate", handlers.SimulateDraw)

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Use(middleware.AuthMiddleware)
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/rank", handlers.GetLeaderboardRank)

	// Debug routes, disabled unless DEBUG_ENDPOINTS=true
	debugGroup := api.Group("/debug")
	debugGroup.Use(handlers.DebugGuard())
	debugGroup.Use(middleware.AuthMiddleware)
	debugGroup.Post("/leaderboard/rank", handlers.DebugSetRank)
	debugGroup.Delete("/leaderboard/rank", handlers.DebugResetRank)
	debugGroup.Post("/reset", handlers.DebugResetProgress)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Put("/users/:id", admin.UpdateUser)
	adminProtected.Delete("/users/:id", admin.DeleteUser)
	adminProtected.Post("/users/:id/ban", admin.BanUser)
	adminProtected.Get("/prizes", admin.GetPrizes)
	adminProtected.Post("/prizes", admin.CreatePrize)
	adminProtected.Put("/prizes/:id", admin.UpdatePrize)
	adminProtected.Delete("/prizes/:id", admin.DeletePrize)
	adminProtected.Get("/draws", admin.GetDraws)
	adminProtected.Post("/draws/:id/cancel", admin.CancelDraw)

	// Live event stream
	app.Get("/ws", handlers.WebSocketUpgrade, handlers.WebSocketHandler())

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🎟️ Draw monitor running, countdown %d minutes", cfgProvider.Current().DrawCountdownMinutes)
	log.Printf("🌐 WebSocket available at ws://localhost:%s/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
		if handlers.DebugEnabled() {
			log.Fatal("FATAL: debug endpoints must not be enabled in production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
