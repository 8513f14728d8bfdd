package models

import "fmt"

// RegisterRequest is the payload for creating a customer or travel-company
// account. CompanyName and BillingEmail are required only for the
// travel_company role.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Role         Role   `json:"role" binding:"required"`
	CompanyName  string `json:"company_name"`
	BillingEmail string `json:"billing_email"`
	Address      string `json:"address"`
}

// Validate checks the registration payload
func (r *RegisterRequest) Validate() error {
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	switch r.Role {
	case RoleCustomer:
	case RoleTravelCompany:
		if r.CompanyName == "" {
			return fmt.Errorf("company name is required for travel-company accounts")
		}
		if r.BillingEmail == "" {
			return fmt.Errorf("billing email is required for travel-company accounts")
		}
	default:
		return fmt.Errorf("role %s cannot self-register", r.Role)
	}
	return nil
}

// LoginRequest is the payload for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens and the signed-in user
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

// RefreshRequest is the payload for exchanging a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
