// handlers/auth.go
package handlers

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"winup/database"
	"winup/game"
	"winup/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    UserInfo `json:"user,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type UserInfo struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsGuest      bool      `json:"is_guest"`
	Level        int       `json:"level"`
	TotalXP      int       `json:"total_xp"`
	Credits      int       `json:"credits"`
	ReferralCode string    `json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// GuestLogin creates a new guest session
func GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	// An empty body is fine for guest login
	_ = c.BodyParser(&req)

	db := database.GetDB()
	if db == nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Database not available",
		})
	}

	guestName := req.GuestName
	if guestName == "" {
		guestName = fmt.Sprintf("Guest_%s", uuid.New().String()[:8])
	}

	user := models.User{
		Username:     guestName,
		IsGuest:      true,
		ReferralCode: newReferralCode(),
		CreatedAt:    time.Now(),
		LastLogin:    time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to create guest account",
		})
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user),
	})
}

// Register creates a registered account, optionally crediting a
// referrer
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username, email and a password of at least 8 characters are required",
		})
	}

	db := database.GetDB()

	var existing models.User
	if err := db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		return c.Status(409).JSON(AuthResponse{
			Success: false,
			Error:   "Username or email already taken",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to process password",
		})
	}

	user := models.User{
		Username:     req.Username,
		Email:        &req.Email,
		Password:     string(hash),
		ReferralCode: newReferralCode(),
		CreatedAt:    time.Now(),
		LastLogin:    time.Now(),
	}

	var referrer *models.User
	if req.ReferralCode != "" {
		var ref models.User
		if err := db.Where("referral_code = ?", strings.ToUpper(req.ReferralCode)).First(&ref).Error; err == nil {
			referrer = &ref
			user.ReferredBy = &ref.ID
		}
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to create account",
		})
	}

	if referrer != nil {
		grantReferralRewards(referrer.ID, user.ID)
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.Status(201).JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user),
	})
}

// Login authenticates a registered user
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username and password required",
		})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	if user.IsBanned {
		return c.Status(403).JSON(AuthResponse{
			Success: false,
			Error:   "Account suspended",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	user.LastLogin = time.Now()
	db.Save(&user)

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user),
	})
}

func userInfo(user *models.User) UserInfo {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return UserInfo{
		ID:           user.ID,
		Username:     user.Username,
		Email:        email,
		IsGuest:      user.IsGuest,
		Level:        user.Level,
		TotalXP:      user.TotalXP,
		Credits:      user.Credits,
		ReferralCode: user.ReferralCode,
		CreatedAt:    user.CreatedAt,
	}
}

// grantReferralRewards pays the referrer and gives the new user a
// bonus ticket on the first active prize. Referral payout failures
// never fail the signup.
func grantReferralRewards(referrerID, newUserID uint) {
	if err := progressionService.GrantReferralRewards(referrerID); err != nil {
		log.Printf("referral payout failed for referrer %d: %v", referrerID, err)
	}

	var prize models.Prize
	if err := database.GetDB().Where("is_active = ?", true).Order("created_at ASC").First(&prize).Error; err != nil {
		return
	}
	if _, err := drawService.GrantBonusTicket(newUserID, prize.ID, game.SourceReferral, time.Now()); err != nil {
		log.Printf("referral ticket grant failed for user %d: %v", newUserID, err)
	}
}

func newReferralCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

func generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_guest": user.IsGuest,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
