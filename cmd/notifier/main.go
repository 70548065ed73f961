package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// The notifier drains the booking queues the API publishes to. Delivery
// channels (mail, push) plug in as a queue.Handler; today it logs.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf(".env file not found: %v", err)
	}

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("ENV"))

	url := os.Getenv("AMQP_URL")
	if url == "" {
		logrus.Fatal("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.WithField("queues", queue.RoutingKeys).Info("notifier started")
	if err := queue.Consume(ctx, url, queue.LogHandler); err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatalf("Notifier error: %v", err)
	}
	logrus.Info("notifier stopped")
}
