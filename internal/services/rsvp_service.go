package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
)

var (
	ErrCapacityExceeded  = errors.New("event is at full capacity")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered     = errors.New("not registered for this event")
)

// RSVPService applies the two attendee-list transitions. All mutation of an
// event's attendee list goes through here; the repository serialises each
// transition per event.
type RSVPService struct {
	eventRepo repository.EventRepository
}

// NewRSVPService creates a new RSVPService.
func NewRSVPService(eventRepo repository.EventRepository) *RSVPService {
	return &RSVPService{
		eventRepo: eventRepo,
	}
}

// Reserve registers the user as a confirmed attendee. Capacity is checked
// before duplication: a duplicate attempt against a full event reports
// ErrCapacityExceeded.
func (s *RSVPService) Reserve(eventID, userID uint64) (*models.Event, error) {
	event, err := s.eventRepo.Reserve(eventID, userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrEventFull):
			return nil, ErrCapacityExceeded
		case errors.Is(err, repository.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		default:
			return nil, fmt.Errorf("failed to reserve: %w", err)
		}
	}
	return event, nil
}

// Cancel removes the user's attendance. Cancelling twice yields success then
// ErrNotRegistered.
func (s *RSVPService) Cancel(eventID, userID uint64) (*models.Event, error) {
	event, err := s.eventRepo.CancelReservation(eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrNotRegistered):
			return nil, ErrNotRegistered
		default:
			return nil, fmt.Errorf("failed to cancel reservation: %w", err)
		}
	}
	return event, nil
}

// ListAttendees returns the attendee list of an event with users hydrated.
func (s *RSVPService) ListAttendees(eventID uint64) ([]models.Attendance, error) {
	event, err := s.eventRepo.FindHydrated(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event.Attendees, nil
}
