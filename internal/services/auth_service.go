package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/constants"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/utils"
	"github.com/camphub/campus-events-api/internal/validation"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidResetToken    = errors.New("invalid or expired password reset token")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

const resetTokenTTL = time.Hour

// AuthService handles registration, login, token refresh, and the password
// reset lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
	mailer   Mailer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, mailer Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
}

// Register creates a new user and issues their first token pair. Email and
// username uniqueness is checked before insertion; the email is stored
// lowercased so uniqueness is case-insensitive.
func (s *AuthService) Register(input RegisterInput) (*models.User, auth.TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if fields := validateRegistration(username, email, input.Password); fields != nil {
		return nil, auth.TokenPair{}, fields
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, auth.TokenPair{}, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, auth.TokenPair{}, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.TokenPair{}, ErrFailedToHashPassword
	}

	role := input.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return user, pair, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a fresh token pair.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*models.User, auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to record login: %w", err)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.TokenPair{}, auth.ErrTokenInvalid
		}
		return auth.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	return s.tokens.IssuePair(user)
}

// RequestPasswordReset issues a time-boxed single-use reset token and hands
// it to the mailer. An unknown email is not an error: the caller always sees
// the same outcome to avoid user enumeration.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := utils.GeneratePasswordResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpiry = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	return s.mailer.SendPasswordReset(user.Email, token)
}

// ResetPassword consumes a reset token and stores the new password hash. The
// token is cleared on success so it cannot be replayed.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if fields := validatePassword(newPassword); fields != nil {
		return fields
	}

	user, err := s.userRepo.FindByValidResetToken(token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	user.ResetPasswordToken = nil
	user.ResetPasswordExpiry = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// registrationFields carries the tag-validated part of a registration.
// Length limits mirror constants.MinUsernameLength / MaxUsernameLength.
type registrationFields struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
}

func validateRegistration(username, email, password string) validation.FieldErrors {
	fields := validation.Struct(registrationFields{Username: username, Email: email})
	if fields == nil {
		fields = validation.FieldErrors{}
	}

	if pwFields := validatePassword(password); pwFields != nil {
		fields["password"] = pwFields["password"]
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validatePassword(password string) validation.FieldErrors {
	if password == "" {
		return validation.FieldErrors{"password": "Password is required"}
	}
	if len(password) < constants.MinPasswordLength {
		return validation.FieldErrors{
			"password": fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength),
		}
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit || !hasLower || !hasUpper {
		return validation.FieldErrors{
			"password": "Password must contain at least one number, one lowercase and one uppercase letter",
		}
	}

	return nil
}
