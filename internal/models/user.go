package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account role within the chain
// Matches PostgreSQL ENUM: user_role
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleManager       Role = "manager"
	RoleClerk         Role = "clerk"
	RoleCustomer      Role = "customer"
	RoleTravelCompany Role = "travel_company"
)

// IsStaff reports whether the role belongs to branch staff able to work
// reservations.
func (r Role) IsStaff() bool {
	return r == RoleClerk || r == RoleManager
}

// User represents an account in the system. Staff accounts (clerk, manager)
// carry the branch they are assigned to; customers and travel companies
// do not.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Role         Role       `db:"role" json:"role"`
	BranchID     *uuid.UUID `db:"branch_id" json:"branch_id,omitempty"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CompanyProfile holds billing details for a travel-company account.
// Invoices reference the company profile, not the user row.
type CompanyProfile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	BillingEmail string    `db:"billing_email" json:"billing_email"`
	Address      string    `db:"address" json:"address"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserSession records a sign-in, including the device it came from.
type UserSession struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	DeviceName string    `db:"device_name" json:"device_name"`
	DeviceOS   string    `db:"device_os" json:"device_os"`
	Browser    string    `db:"browser" json:"browser"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
