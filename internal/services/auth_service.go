package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/pkg/jwt"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration and authentication
type AuthService struct {
	userRepo            *database.UserRepository
	jwtService          *jwt.Service
	accessTokenDuration time.Duration
	bcryptCost          int
	logger              *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *database.UserRepository,
	jwtService *jwt.Service,
	accessTokenDuration time.Duration,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:            userRepo,
		jwtService:          jwtService,
		accessTokenDuration: accessTokenDuration,
		bcryptCost:          bcryptCost,
		logger:              logger,
	}
}

// Register creates a customer or travel-company account. Travel companies
// additionally get a company profile that invoices are billed against.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Status:       "active",
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if req.Role == models.RoleTravelCompany {
		profile := &models.CompanyProfile{
			UserID:       user.ID,
			CompanyName:  req.CompanyName,
			BillingEmail: req.BillingEmail,
			Address:      req.Address,
		}
		if err := s.userRepo.CreateCompanyProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to create company profile: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("Account registered")

	return user, nil
}

// Login authenticates a user and records the session, including the
// device the sign-in came from.
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if user.Status != "active" {
		return nil, fmt.Errorf("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	ua := user_agent.New(userAgent)
	browser, _ := ua.Browser()
	session := &models.UserSession{
		UserID:     user.ID,
		IPAddress:  ipAddress,
		DeviceName: ua.Platform(),
		DeviceOS:   ua.OS(),
		Browser:    browser,
	}
	if err := s.userRepo.CreateSession(session); err != nil {
		// A failed audit row should not block the sign-in.
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login session")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
func (s *AuthService) RefreshToken(refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("account not found")
	}
	if user.Status != "active" {
		return nil, fmt.Errorf("account is inactive")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
		User:         user,
	}, nil
}
