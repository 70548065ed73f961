package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/handlers"
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/internal/repositories"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"
	"event-ticketing-backend/pkg/database"
	"event-ticketing-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

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

	// Initialize logger
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

	// Optional infrastructure: both degrade gracefully when unconfigured
	rdb := database.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}
	publisher := queue.NewPublisher(cfg.AMQPURL)
	defer publisher.Close()

	// Initialize repositories
	repo := repositories.NewRepository(db)

	// Initialize services
	authSvc := services.NewAuthService(repo, cfg)
	userSvc := services.NewUserService(repo)
	categorySvc := services.NewCategoryService(repo)
	eventSvc := services.NewEventService(repo, publisher)
	bookingSvc := services.NewBookingService(repo, publisher)
	reviewSvc := services.NewReviewService(repo)

	// Initialize handlers
	handler := handlers.NewHandler(authSvc, userSvc, categorySvc, eventSvc, bookingSvc, reviewSvc, cfg, rdb)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Event Ticketing API",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadSize)*utils.MaxUploadFiles + 1024*1024,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Uploaded images
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}
	app.Static("/uploads", cfg.UploadDir)

	// Register routes
	api := app.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logrus.WithField("addr", addr).Info("server starting")
		if err := app.Listen(addr); err != nil {
			logrus.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}
	logrus.Info("server stopped gracefully")
}
