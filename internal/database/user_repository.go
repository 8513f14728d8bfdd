package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles user and company-profile database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. The password must already be hashed.
func (r *UserRepository) CreateUser(user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Status == "" {
		user.Status = "active"
	}

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, branch_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.BranchID, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id. Returns (nil, nil) when not found.
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, first_name, last_name, role, branch_id, status, created_at, updated_at
		FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when not found.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, first_name, last_name, role, branch_id, status, created_at, updated_at
		FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetCompanyProfileByUserID retrieves the company profile owned by a
// travel-company user. Returns (nil, nil) when the user has no profile.
func (r *UserRepository) GetCompanyProfileByUserID(userID uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := r.db.Get(&profile, `
		SELECT id, user_id, company_name, billing_email, address, created_at
		FROM company_profiles WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return &profile, nil
}

// CreateCompanyProfile inserts a company profile for a travel-company user.
func (r *UserRepository) CreateCompanyProfile(profile *models.CompanyProfile) error {
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO company_profiles (id, user_id, company_name, billing_email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		profile.ID, profile.UserID, profile.CompanyName, profile.BillingEmail, profile.Address, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company profile: %w", err)
	}
	return nil
}

// CreateSession records a sign-in with the device it came from.
func (r *UserRepository) CreateSession(session *models.UserSession) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO user_sessions (id, user_id, ip_address, device_name, device_os, browser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.IPAddress, session.DeviceName, session.DeviceOS, session.Browser, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}
