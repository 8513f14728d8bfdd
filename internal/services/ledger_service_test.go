package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedgerTest(t *testing.T) (*LedgerService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	service := NewLedgerService(
		database.NewReservationRepository(sqlxDB),
		database.NewBillingRepository(sqlxDB),
		database.NewInvoiceRepository(sqlxDB),
		database.NewUserRepository(sqlxDB),
		logger,
	)

	cleanup := func() {
		db.Close()
	}

	return service, mock, cleanup
}

func TestUserSummary(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	userID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(additional_fee\\), 0\\)").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(35.50))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(remaining_balance\\), 0\\)").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(550.00))

	summary, err := service.UserSummary(userID)
	require.NoError(t, err)
	assert.InDelta(t, 35.50, summary.AdditionalFees, 0.001)
	assert.InDelta(t, 550.00, summary.RemainingBalances, 0.001)
	assert.InDelta(t, 585.50, summary.GrandTotal, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSummary_NoActivity(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	userID := uuid.New()

	// COALESCE folds missing rows to zero on both legs.
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(additional_fee\\), 0\\)").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(remaining_balance\\), 0\\)").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	summary, err := service.UserSummary(userID)
	require.NoError(t, err)
	assert.Zero(t, summary.GrandTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyOutstanding(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	userID := uuid.New()
	companyID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM company_profiles").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "company_name", "billing_email", "address", "created_at",
		}).AddRow(companyID, userID, "Island Tours Ltd", "billing@islandtours.test", "12 Beach Rd", now))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\)").
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1200.00))
	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "amount", "status", "issued_at", "due_date",
		}).AddRow(uuid.New(), companyID, 1200.00, "pending", now, now.AddDate(0, 0, 30)))

	outstanding, invoices, err := service.CompanyOutstanding(userID)
	require.NoError(t, err)
	assert.InDelta(t, 1200.00, outstanding, 0.001)
	assert.Len(t, invoices, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyOutstanding_NoProfile(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	userID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM company_profiles").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "company_name", "billing_email", "address", "created_at",
		}))

	_, _, err := service.CompanyOutstanding(userID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddServiceCharge(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	actor := staffActor()
	res := &models.Reservation{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BranchID:      *actor.BranchID,
		RoomTypeID:    uuid.New(),
		CheckInDate:   time.Now().AddDate(0, 0, 1),
		CheckOutDate:  time.Now().AddDate(0, 0, 4),
		Occupants:     2,
		NumberOfRooms: 1,
		Status:        models.ReservationConfirmed,
	}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(res.ID).
		WillReturnRows(reservationRows(res))
	mock.ExpectExec("INSERT INTO billings").
		WillReturnResult(sqlmock.NewResult(1, 1))

	billing, err := service.AddServiceCharge(actor, res.ID, "room_service", 25.00)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, billing.UserID)
	assert.Equal(t, "room_service", billing.ServiceType)
	assert.InDelta(t, 25.00, billing.AdditionalFee, 0.001)
	assert.Equal(t, models.BillingOpen, billing.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddServiceCharge_RequiresStaff(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}

	_, err := service.AddServiceCharge(actor, uuid.New(), "minibar", 12.00)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddServiceCharge_WrongBranch(t *testing.T) {
	service, mock, cleanup := setupLedgerTest(t)
	defer cleanup()

	actor := staffActor()
	res := &models.Reservation{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BranchID:      uuid.New(),
		RoomTypeID:    uuid.New(),
		CheckInDate:   time.Now().AddDate(0, 0, 1),
		CheckOutDate:  time.Now().AddDate(0, 0, 2),
		Occupants:     1,
		NumberOfRooms: 1,
		Status:        models.ReservationConfirmed,
	}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(res.ID).
		WillReturnRows(reservationRows(res))

	_, err := service.AddServiceCharge(actor, res.ID, "laundry", 8.00)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
