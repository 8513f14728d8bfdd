package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentTest(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewPaymentRepository(sqlxDB)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestCreatePendingPayment(t *testing.T) {
	repo, mock, cleanup := setupPaymentTest(t)
	defer cleanup()

	pp := &models.PendingPayment{
		UserID:        uuid.New(),
		ReservationID: uuid.New(),
		Amount:        550.00,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pending_payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations SET status = 'pending_payment'").
		WithArgs(pp.ReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreatePendingPayment(pp)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, pp.ID)
	assert.Equal(t, models.PaymentPending, pp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePendingPayment_ReservationNotPending(t *testing.T) {
	repo, mock, cleanup := setupPaymentTest(t)
	defer cleanup()

	pp := &models.PendingPayment{
		UserID:        uuid.New(),
		ReservationID: uuid.New(),
		Amount:        550.00,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pending_payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations SET status = 'pending_payment'").
		WithArgs(pp.ReservationID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreatePendingPayment(pp)
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayment(t *testing.T) {
	repo, mock, cleanup := setupPaymentTest(t)
	defer cleanup()

	pp := &models.PendingPayment{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ReservationID: uuid.New(),
		Amount:        550.00,
		Status:        models.PaymentPending,
	}
	payment := &models.Payment{
		UserID:         pp.UserID,
		ReservationID:  pp.ReservationID,
		Amount:         pp.Amount,
		PaymentMethod:  "visa",
		CardLastFour:   "1111",
		CardholderName: "Jane Doe",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pending_payments SET status = 'cancelled'").
		WithArgs(pp.ID, pp.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations SET status = 'confirmed'").
		WithArgs(pp.ReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CompletePayment(pp, payment)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.NotEqual(t, uuid.Nil, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayment_Replay(t *testing.T) {
	repo, mock, cleanup := setupPaymentTest(t)
	defer cleanup()

	pp := &models.PendingPayment{
		ID:     uuid.New(),
		UserID: uuid.New(),
	}

	// The pending row was already consumed by a previous submission, so
	// the conditional claim matches nothing and no payment is written.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pending_payments SET status = 'cancelled'").
		WithArgs(pp.ID, pp.UserID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CompletePayment(pp, &models.Payment{})
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPendingPayment_Consumed(t *testing.T) {
	repo, mock, cleanup := setupPaymentTest(t)
	defer cleanup()

	id := uuid.New()
	userID := uuid.New()

	// Consumed and swept rows are filtered by the status predicate, so
	// the lookup behaves exactly like a missing row.
	mock.ExpectQuery("SELECT (.+) FROM pending_payments").
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "reservation_id", "group_booking_id", "amount", "status", "created_at",
		}))

	pp, err := repo.GetPendingPayment(id, userID)
	require.NoError(t, err)
	assert.Nil(t, pp)
	assert.NoError(t, mock.ExpectationsWereMet())
}
