package main

import (
	"fmt"
	"log"
	"os"

	"meetings-server/models"
	"meetings-server/storage"

	"golang.org/x/crypto/bcrypt"
)

// Seeds the first super admin and a default priority set so a fresh install
// is usable. Safe to run repeatedly.
func main() {
	storage.InitializeDB()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	var existing models.User
	if err := storage.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Println("Admin already exists, nothing to do.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}

	admin := models.User{
		FirstName: "System",
		LastName:  "Administrator",
		UserName:  "admin",
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleSuperAdmin,
	}
	if err := storage.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}

	priorities := []models.MeetingPriority{
		{Priority: "High", PriorityColor: "#d9534f"},
		{Priority: "Medium", PriorityColor: "#f0ad4e"},
		{Priority: "Low", PriorityColor: "#5cb85c"},
	}
	for _, p := range priorities {
		var found models.MeetingPriority
		if err := storage.DB.Where("priority = ?", p.Priority).First(&found).Error; err == nil {
			continue
		}
		if err := storage.DB.Create(&p).Error; err != nil {
			log.Fatalf("Error seeding priority %s: %v", p.Priority, err)
		}
	}

	fmt.Println("Seeding completed successfully!")
}
