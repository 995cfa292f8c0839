package main

import (
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/config"
	"github.com/alumnihub/backend/internal/database"
	"github.com/alumnihub/backend/internal/models"
)

// Seeds the bootstrap admin account. Safe to run repeatedly; an existing
// account with the same email is left untouched.
func main() {
	name := flag.String("name", "Administrator", "admin display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var existing models.User
	err = db.Where("email = ?", *email).First(&existing).Error
	if err == nil {
		log.Printf("Admin %s already exists, nothing to do", *email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check existing user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusApproved,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.AlumniProfile{UserID: user.ID}
		return tx.Create(&profile).Error
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin %s (%s)", *email, user.ID)
}
