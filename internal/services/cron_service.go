package services

import (
	"fmt"
	"log"
	"time"

	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/robfig/cron/v3"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	expirySvc     *PaymentExpiryService
	invoiceRepo   *database.InvoiceRepository
	sweepSchedule string
}

// NewCronService creates a new CronService
func NewCronService(expirySvc *PaymentExpiryService, invoiceRepo *database.InvoiceRepository, sweepSchedule string) *CronService {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:          c,
		expirySvc:     expirySvc,
		invoiceRepo:   invoiceRepo,
		sweepSchedule: sweepSchedule,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	// Job 1: Sweep expired pending payments. The schedule is hourly by
	// default; the sweep itself is a no-op before the daily gate hour.
	_, err := s.cron.AddFunc(s.sweepSchedule, s.sweepExpiredPaymentsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule payment expiry job: %w", err)
	}
	log.Printf("✓ Scheduled: Sweep expired pending payments (%s)\n", s.sweepSchedule)

	// Job 2: Flag invoices past their due date daily at 1 AM
	// "0 0 1 * * *" = At 1:00 AM every day
	_, err = s.cron.AddFunc("0 0 1 * * *", s.markOverdueInvoicesJob)
	if err != nil {
		return fmt.Errorf("failed to schedule overdue invoices job: %w", err)
	}
	log.Println("✓ Scheduled: Mark overdue invoices (Daily at 1:00 AM)")

	// Start the cron scheduler
	s.cron.Start()
	log.Println("✓ Cron service started successfully")

	return nil
}

// Stop stops all cron jobs
func (s *CronService) Stop() {
	log.Println("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✓ Cron service stopped")
}

// sweepExpiredPaymentsJob cancels stale pending payments and everything
// created from them
func (s *CronService) sweepExpiredPaymentsJob() {
	log.Println("[CRON] Starting payment expiry sweep...")
	startTime := time.Now()

	swept, err := s.expirySvc.Sweep()
	if err != nil {
		log.Printf("[CRON ERROR] Payment expiry sweep failed: %v\n", err)
		return
	}

	duration := time.Since(startTime)
	log.Printf("[CRON] ✓ Swept %d pending payments in %v\n", swept, duration)
}

// markOverdueInvoicesJob flags unpaid invoices past their due date
func (s *CronService) markOverdueInvoicesJob() {
	log.Println("[CRON] Starting overdue invoice check...")
	startTime := time.Now()

	flagged, err := s.invoiceRepo.MarkOverdueInvoices(time.Now())
	if err != nil {
		log.Printf("[CRON ERROR] Failed to mark overdue invoices: %v\n", err)
		return
	}

	duration := time.Since(startTime)
	log.Printf("[CRON] ✓ Marked %d invoices overdue in %v\n", flagged, duration)
}

// RunSweepNow runs the payment expiry sweep immediately (for testing)
func (s *CronService) RunSweepNow() error {
	log.Println("[MANUAL] Running payment expiry sweep now...")
	s.sweepExpiredPaymentsJob()
	return nil
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
