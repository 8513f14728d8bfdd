package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/pkg/card"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReservationServiceTest(t *testing.T) (*ReservationService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	validator := card.NewValidatorAt(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})

	service := NewReservationService(
		database.NewReservationRepository(sqlxDB),
		database.NewRoomRepository(sqlxDB),
		database.NewBranchRepository(sqlxDB),
		database.NewUserRepository(sqlxDB),
		database.NewPaymentRepository(sqlxDB),
		NewPricingService(10.00),
		validator,
		50,
		logger,
	)

	cleanup := func() {
		db.Close()
	}

	return service, mock, cleanup
}

func staffActor() Actor {
	branchID := uuid.New()
	return Actor{
		UserID:   uuid.New(),
		Role:     models.RoleClerk,
		BranchID: &branchID,
	}
}

func reservationRows(res *models.Reservation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "branch_id", "room_type_id", "check_in_date", "check_out_date",
		"occupants", "number_of_rooms", "discount_percentage", "remaining_balance",
		"status", "created_at", "updated_at",
	}).AddRow(
		res.ID, res.UserID, res.BranchID, res.RoomTypeID, res.CheckInDate, res.CheckOutDate,
		res.Occupants, res.NumberOfRooms, res.DiscountPercentage, res.RemainingBalance,
		res.Status, time.Now(), time.Now(),
	)
}

func TestApprove_RequiresStaff(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	customer := Actor{UserID: uuid.New(), Role: models.RoleCustomer}

	// The policy check runs before anything is read, so no queries fire.
	_, err := service.Approve(customer, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_RequiresBranchScope(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	unscoped := Actor{UserID: uuid.New(), Role: models.RoleClerk}

	_, err := service.Approve(unscoped, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_WrongBranch(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	actor := staffActor()
	res := &models.Reservation{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BranchID:      uuid.New(), // different branch
		RoomTypeID:    uuid.New(),
		CheckInDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		Occupants:     2,
		NumberOfRooms: 1,
		Status:        models.ReservationPending,
	}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(res.ID).
		WillReturnRows(reservationRows(res))

	_, err := service.Approve(actor, res.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_NotPending(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	actor := staffActor()
	res := &models.Reservation{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BranchID:      *actor.BranchID,
		RoomTypeID:    uuid.New(),
		CheckInDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		Occupants:     2,
		NumberOfRooms: 1,
		Status:        models.ReservationCancelled,
	}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(res.ID).
		WillReturnRows(reservationRows(res))

	_, err := service.Approve(actor, res.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayment_InvalidCardTouchesNothing(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}

	// Every violation is collected and reported; the pending payment is
	// never even read.
	_, err := service.CompletePayment(actor, uuid.New(), &models.CompletePaymentRequest{
		CardholderName: "J",
		CardNumber:     "1234",
		Expiry:         "13/20",
		CVC:            "12",
	})

	var cardErr *CardValidationError
	require.ErrorAs(t, err, &cardErr)
	assert.NotEmpty(t, cardErr.Violations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayment_ConsumedPendingPayment(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM pending_payments").
		WithArgs(id, actor.UserID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "reservation_id", "group_booking_id", "amount", "status", "created_at",
		}))

	_, err := service.CompletePayment(actor, id, &models.CompletePaymentRequest{
		CardholderName: "Jane Doe",
		CardNumber:     "4111111111111111",
		Expiry:         "12/27",
		CVC:            "123",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservation_DiscountPolicy(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	req := &models.CreateReservationRequest{
		BranchID:           uuid.New(),
		RoomTypeID:         uuid.New(),
		CheckInDate:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:       time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		Occupants:          2,
		NumberOfRooms:      1,
		DiscountPercentage: 10,
	}

	// Customers cannot carry a discount at all.
	customer := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err := service.CreateReservation(customer, req)
	assert.Error(t, err)

	// Travel companies can, but only up to the configured cap.
	company := Actor{UserID: uuid.New(), Role: models.RoleTravelCompany}
	req.DiscountPercentage = 75 // cap is 50
	_, err = service.CreateReservation(company, req)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_RequiresStaff(t *testing.T) {
	service, mock, cleanup := setupReservationServiceTest(t)
	defer cleanup()

	err := service.Reject(Actor{UserID: uuid.New(), Role: models.RoleCustomer}, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
