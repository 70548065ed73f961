package main

import (
	"errors"
	"os"

	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/repositories"
	"event-ticketing-backend/internal/utils"
	"event-ticketing-backend/pkg/database"
	"event-ticketing-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Music", "Technology", "Sports", "Arts", "Business", "Food & Drink"}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warnf(".env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Env)

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		logrus.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		logrus.Fatalf("Migration error: %v", err)
	}
	logrus.Info("database migrations completed")

	repo := repositories.NewRepository(db)

	if err := seedOrganizer(repo); err != nil {
		logrus.Fatalf("Failed to seed organizer: %v", err)
	}
	if err := seedCategories(repo); err != nil {
		logrus.Fatalf("Failed to seed categories: %v", err)
	}

	logrus.Info("migration process completed")
}

func seedOrganizer(repo *repositories.Repository) error {
	email := getenv("SEED_ORGANIZER_EMAIL", "organizer@event.com")
	password := getenv("SEED_ORGANIZER_PASSWORD", "organizer123")

	// Check if organizer already exists
	if _, err := repo.UserRepo.GetUserByEmail(email); err == nil {
		logrus.WithField("email", email).Info("default organizer already exists")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return repo.Transaction(func(tx *repositories.Repository) error {
		user := &models.User{
			Name:     "Default Organizer",
			Email:    email,
			Password: hashedPassword,
			Role:     models.RoleOrganizer,
		}
		if err := tx.UserRepo.CreateUser(user); err != nil {
			return err
		}

		profile := &models.OrganizerProfile{
			UserID:           user.ID,
			OrganizationName: "Default Events Co.",
			Address:          "1 Main Street",
			City:             "Springfield",
			State:            "IL",
			Country:          "USA",
			ZipCode:          "62701",
		}
		if err := tx.UserRepo.CreateOrganizerProfile(profile); err != nil {
			return err
		}

		logrus.WithField("email", email).Info("default organizer created")
		return nil
	})
}

func seedCategories(repo *repositories.Repository) error {
	for _, name := range defaultCategories {
		_, err := repo.CategoryRepo.GetCategoryByName(name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.CategoryRepo.CreateCategory(&models.Category{Name: name}); err != nil {
			return err
		}
		logrus.WithField("category", name).Info("category created")
	}
	return nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
