package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// InvoiceRepository handles company invoice database operations
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// ListInvoicesByCompany returns a company's invoices, newest first.
func (r *InvoiceRepository) ListInvoicesByCompany(companyID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Select(&invoices, `
		SELECT id, company_id, amount, status, issued_at, due_date
		FROM invoices WHERE company_id = $1 ORDER BY issued_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// SumOutstandingByCompany returns the total amount of unpaid invoices for
// a company. Absent rows count as zero.
func (r *InvoiceRepository) SumOutstandingByCompany(companyID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.Get(&total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM invoices WHERE company_id = $1 AND status IN ('pending', 'overdue')`, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding invoices: %w", err)
	}
	return total, nil
}

// MarkInvoicePaid settles a pending or overdue invoice.
func (r *InvoiceRepository) MarkInvoicePaid(id uuid.UUID) error {
	result, err := r.db.Exec(`
		UPDATE invoices SET status = 'paid'
		WHERE id = $1 AND status IN ('pending', 'overdue')`, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("invoice not found or already paid")
	}
	return nil
}

// MarkOverdueInvoices flips pending invoices past their due date to
// overdue and returns how many rows changed.
func (r *InvoiceRepository) MarkOverdueInvoices(now time.Time) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE invoices SET status = 'overdue'
		WHERE status = 'pending' AND due_date < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
