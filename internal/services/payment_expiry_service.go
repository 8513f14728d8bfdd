package services

import (
	"time"

	"github.com/grandstay/hotelchain-backend/internal/config"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// PaymentExpiryService cancels pending payments that were staged but never
// completed. A sweep only acts when both gates pass: the daily gate hour
// has been reached and the pending payment is older than the configured
// maximum age. Each swept payment cascades: the payment row, its
// reservation and any booking created from it are cancelled and the rooms
// released.
type PaymentExpiryService struct {
	paymentRepo *database.PaymentRepository
	cfg         config.SweeperConfig
	logger      *logrus.Logger
}

// NewPaymentExpiryService creates a new PaymentExpiryService
func NewPaymentExpiryService(paymentRepo *database.PaymentRepository, cfg config.SweeperConfig, logger *logrus.Logger) *PaymentExpiryService {
	return &PaymentExpiryService{
		paymentRepo: paymentRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// SweepOnce runs a single sweep as of the given instant and returns the
// number of pending payments cancelled. Before the gate hour it is a
// no-op regardless of how stale the pending payments are.
func (s *PaymentExpiryService) SweepOnce(now time.Time) (int, error) {
	if now.Hour() < s.cfg.GateHour {
		s.logger.WithFields(logrus.Fields{
			"hour":      now.Hour(),
			"gate_hour": s.cfg.GateHour,
		}).Debug("Expiry sweep skipped, gate hour not reached")
		return 0, nil
	}

	cutoff := now.Add(-s.cfg.MaxAge)
	swept, err := s.paymentRepo.SweepExpiredPendingPayments(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Expiry sweep failed")
		return 0, err
	}

	if swept > 0 {
		s.logger.WithFields(logrus.Fields{
			"swept":  swept,
			"cutoff": cutoff,
		}).Info("Expired pending payments cancelled")
	}
	return swept, nil
}

// Sweep runs SweepOnce against the wall clock.
func (s *PaymentExpiryService) Sweep() (int, error) {
	return s.SweepOnce(time.Now())
}
