package main

import (
	"errors"
	"log"
	"os"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/model"
	"sumii-mobile-api/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@sumii.de"
	demoPassword = "sumii-demo-2025"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(database.GormConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.Connection,
		LogSQL: cfg.Database.LogSQL,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	email := demoEmail
	if v := os.Getenv("SEED_EMAIL"); v != "" {
		email = v
	}

	log.Println("Seeding demo user...")
	user, err := seedUser(db, email)
	if err != nil {
		log.Fatalf("Error: seeding user: %v", err)
	}

	log.Println("Seeding demo case...")
	if err := SeedDemoCase(db, user); err != nil {
		log.Fatalf("Error: seeding demo case: %v", err)
	}

	log.Printf("Seeding completed. Login with %s / %s", email, demoPassword)
}

func seedUser(db *gorm.DB, email string) (*model.User, error) {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("User '%s' already exists, skipping...", email)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashed := string(hash)
	nickname := "Demo"
	user := model.User{
		Email:          email,
		HashedPassword: &hashed,
		IsActive:       true,
		IsVerified:     true,
		Nickname:       &nickname,
		Language:       "de",
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	log.Printf("Created user: %s", email)
	return &user, nil
}
