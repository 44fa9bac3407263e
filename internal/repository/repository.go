package repository

import (
	"errors"
	"time"

	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/utils"
)

var (
	// ErrEventFull is returned when an event has no remaining capacity.
	ErrEventFull = errors.New("event is at full capacity")
	// ErrAlreadyRegistered is returned when a user RSVPs twice to the same event.
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	// ErrNotRegistered is returned when cancelling an RSVP that does not exist.
	ErrNotRegistered = errors.New("user is not registered for this event")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update persists changes to an existing user
	Update(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email (callers lowercase the address)
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByValidResetToken finds a user whose reset token matches and has not expired
	FindByValidResetToken(token string, now time.Time) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// Update persists changes to an existing event
	Update(event *models.Event) error

	// FindByID finds an event by ID without hydrating relations
	FindByID(id uint64) (*models.Event, error)

	// FindHydrated finds an event with organizer and attendee users preloaded
	FindHydrated(id uint64) (*models.Event, error)

	// FindOwned finds an event only when it belongs to the given organizer.
	// A missing event and a foreign event are indistinguishable to the caller.
	FindOwned(id, organizerID uint64) (*models.Event, error)

	// DeleteOwned deletes an event only when it belongs to the given organizer,
	// with the same indistinguishable failure as FindOwned.
	DeleteOwned(id, organizerID uint64) error

	// List returns hydrated events ordered by start time, with pagination
	List(params utils.PaginationParams) ([]models.Event, int64, error)

	// ListByAttendee returns events the given user has an attendance on
	ListByAttendee(userID uint64) ([]models.Event, error)

	// Reserve atomically appends a confirmed attendance, enforcing the
	// capacity and duplicate invariants inside one transaction. Returns the
	// hydrated event on success.
	Reserve(eventID, userID uint64, now time.Time) (*models.Event, error)

	// CancelReservation atomically removes the user's attendance. Returns the
	// hydrated event on success.
	CancelReservation(eventID, userID uint64) (*models.Event, error)
}
