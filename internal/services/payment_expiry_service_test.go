package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/config"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExpiryTest(t *testing.T) (*PaymentExpiryService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	paymentRepo := database.NewPaymentRepository(sqlxDB)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := config.SweeperConfig{
		MaxAge:   7 * time.Hour,
		GateHour: 19,
	}
	service := NewPaymentExpiryService(paymentRepo, cfg, logger)

	cleanup := func() {
		db.Close()
	}

	return service, mock, cleanup
}

func TestSweepOnce_BeforeGateHour(t *testing.T) {
	service, mock, cleanup := setupExpiryTest(t)
	defer cleanup()

	// 10:00 is before the 19:00 gate: no database activity at all, no
	// matter how stale the pending payments are.
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	swept, err := service.SweepOnce(now)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepOnce_AfterGateHour(t *testing.T) {
	service, mock, cleanup := setupExpiryTest(t)
	defer cleanup()

	now := time.Date(2025, 6, 15, 19, 5, 0, 0, time.UTC)
	cutoff := now.Add(-7 * time.Hour)

	resA := uuid.New()
	resB := uuid.New()
	roomID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE pending_payments SET status = 'cancelled'").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).
			AddRow(resA).AddRow(resB))
	mock.ExpectExec("UPDATE reservations SET status = 'cancelled'").
		WithArgs(resA, resB).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("UPDATE bookings SET status = 'cancelled'").
		WithArgs(resA, resB).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(roomID))
	mock.ExpectExec("UPDATE rooms SET status = 'available'").
		WithArgs(roomID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	swept, err := service.SweepOnce(now)
	require.NoError(t, err)
	assert.Equal(t, 2, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepOnce_NothingStale(t *testing.T) {
	service, mock, cleanup := setupExpiryTest(t)
	defer cleanup()

	// Past the gate but every pending payment is younger than the cutoff.
	now := time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE pending_payments SET status = 'cancelled'").
		WithArgs(now.Add(-7 * time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}))
	mock.ExpectRollback()

	swept, err := service.SweepOnce(now)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}
