package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/constants"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/validation"
)

var (
	ErrInvalidUserStatus = errors.New("invalid user status")
	ErrInvalidPreference = errors.New("invalid preference category")
)

// UserService handles profile, preference, and administrative user operations.
type UserService struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, eventRepo repository.EventRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

// UpdateProfileInput represents the mutable profile fields. Credentials,
// role, and status are deliberately excluded.
type UpdateProfileInput struct {
	Username     *string
	Preferences  []string
	ProfileImage *string
}

// UpdateProfile applies profile changes for the given user.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
			return nil, validation.FieldErrors{
				"username": fmt.Sprintf("Username must be between %d and %d characters",
					constants.MinUsernameLength, constants.MaxUsernameLength),
			}
		}

		if username != user.Username {
			if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != userID {
				return nil, ErrDuplicateUsername
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}

	if input.Preferences != nil {
		if err := validatePreferences(input.Preferences); err != nil {
			return nil, err
		}
		user.Preferences = input.Preferences
	}

	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// ChangePassword re-verifies the current password before accepting the new one.
func (s *UserService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if fields := validatePassword(newPassword); fields != nil {
		return fields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// UpdatePreferences replaces the user's preference list.
func (s *UserService) UpdatePreferences(userID uint64, preferences []string) (*models.User, error) {
	return s.UpdateProfile(userID, UpdateProfileInput{Preferences: preferences})
}

// ListRegisteredEvents returns the events the user has RSVP'd to.
func (s *UserService) ListRegisteredEvents(userID uint64) ([]models.Event, error) {
	return s.eventRepo.ListByAttendee(userID)
}

// ListUsers returns all users. Admin only, enforced by the caller.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}

// UpdateStatus sets a user's account status. Admin only, enforced by the caller.
func (s *UserService) UpdateStatus(userID uint64, status models.UserStatus) (*models.User, error) {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
	default:
		return nil, ErrInvalidUserStatus
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Status = status
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return user, nil
}

func validatePreferences(preferences []string) error {
	for _, p := range preferences {
		if !models.IsValidCategory(models.EventCategory(p)) {
			return fmt.Errorf("%w: %q", ErrInvalidPreference, p)
		}
	}
	return nil
}
