// cmd/seed loads the initial prize catalog and admin user into the
// database from a JSON file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"winup/database"
	"winup/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedFile struct {
	Prizes []SeedPrize `json:"prizes"`
	Admin  *SeedAdmin  `json:"admin,omitempty"`
}

type SeedPrize struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	GoalAds     int    `json:"goal_ads"`
}

type SeedAdmin struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	path := flag.String("file", "./seed/prizes.json", "seed file to load")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read seed file:", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatal("Failed to parse seed file:", err)
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	created := 0
	for _, p := range seed.Prizes {
		if p.Name == "" || p.GoalAds <= 0 {
			log.Printf("Skipping invalid prize entry: %+v", p)
			continue
		}

		var existing models.Prize
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == nil {
			fmt.Printf("Prize already present: %s\n", p.Name)
			continue
		}

		prize := models.Prize{
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			GoalAds:     p.GoalAds,
			IsActive:    true,
		}
		if err := db.Create(&prize).Error; err != nil {
			log.Printf("Error inserting prize %s: %v", p.Name, err)
			continue
		}
		created++
		fmt.Printf("Created prize: %s (goal %d ads)\n", p.Name, p.GoalAds)
	}

	if seed.Admin != nil {
		seedAdmin(db, seed.Admin)
	}

	var total int64
	db.Model(&models.Prize{}).Count(&total)
	fmt.Printf("\n✓ Seed completed: %d new prizes, %d total\n", created, total)
}

func seedAdmin(db *gorm.DB, admin *SeedAdmin) {
	if admin.Username == "" || len(admin.Password) < 8 {
		log.Println("Skipping admin entry: username and a password of at least 8 characters are required")
		return
	}

	var existing models.User
	if err := db.Where("username = ?", admin.Username).First(&existing).Error; err == nil {
		fmt.Printf("Admin already present: %s\n", admin.Username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	user := models.User{
		Username:     admin.Username,
		Password:     string(hash),
		IsAdmin:      true,
		ReferralCode: strings.ToUpper(uuid.New().String()[:8]),
		CreatedAt:    time.Now(),
	}
	if admin.Email != "" {
		user.Email = &admin.Email
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	fmt.Printf("Created admin user: %s\n", admin.Username)
}
