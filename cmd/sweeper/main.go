package main

import (
	"os"
	"time"

	"github.com/grandstay/hotelchain-backend/internal/config"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// One-shot expiry sweep for use from an external scheduler. The same
// gates apply as in the in-process cron job: the sweep does nothing
// before the configured gate hour.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	paymentRepo := database.NewPaymentRepository(db)
	expiryService := services.NewPaymentExpiryService(paymentRepo, cfg.Sweeper, logger)

	swept, err := expiryService.SweepOnce(time.Now())
	if err != nil {
		logger.Fatalf("Expiry sweep failed: %v", err)
	}

	logger.WithField("swept", swept).Info("Expiry sweep finished")
}
