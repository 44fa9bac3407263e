package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/utils"
	"github.com/camphub/campus-events-api/internal/validation"
)

var (
	ErrEventNotFound = errors.New("event not found")
	// ErrEventNotFoundOrUnauthorized covers both a missing event and an event
	// owned by someone else, so existence is never leaked to non-owners.
	ErrEventNotFoundOrUnauthorized = errors.New("event not found or unauthorized")
)

// EventService handles event CRUD with ownership-scoped mutation.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// EventInput carries the writable event fields.
type EventInput struct {
	Name                 string
	Description          string
	StartDateTime        time.Time
	EndDateTime          time.Time
	Location             string
	Category             models.EventCategory
	Capacity             int
	TicketPrice          float64
	Tags                 []string
	ImageURL             string
	IsPrivate            bool
	RegistrationDeadline *time.Time
}

// Create validates the input and creates a new published event owned by the
// organizer.
func (s *EventService) Create(organizerID uint64, input EventInput) (*models.Event, error) {
	if fields := validateEventInput(input); fields != nil {
		return nil, fields
	}

	event := &models.Event{
		Name:                 input.Name,
		Description:          input.Description,
		StartDateTime:        input.StartDateTime,
		EndDateTime:          input.EndDateTime,
		Location:             input.Location,
		Category:             input.Category,
		Capacity:             input.Capacity,
		Status:               models.EventStatusPublished,
		TicketPrice:          input.TicketPrice,
		Tags:                 input.Tags,
		ImageURL:             input.ImageURL,
		IsPrivate:            input.IsPrivate,
		RegistrationDeadline: input.RegistrationDeadline,
		OrganizerID:          organizerID,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.eventRepo.FindHydrated(event.ID)
}

// Update validates and applies changes to an event, but only for its
// organizer. A missing event and a foreign event produce the same failure.
func (s *EventService) Update(eventID, organizerID uint64, input EventInput) (*models.Event, error) {
	if fields := validateEventInput(input); fields != nil {
		return nil, fields
	}

	event, err := s.eventRepo.FindOwned(eventID, organizerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFoundOrUnauthorized
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	event.Name = input.Name
	event.Description = input.Description
	event.StartDateTime = input.StartDateTime
	event.EndDateTime = input.EndDateTime
	event.Location = input.Location
	event.Category = input.Category
	event.Capacity = input.Capacity
	event.TicketPrice = input.TicketPrice
	event.Tags = input.Tags
	event.ImageURL = input.ImageURL
	event.IsPrivate = input.IsPrivate
	event.RegistrationDeadline = input.RegistrationDeadline

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return s.eventRepo.FindHydrated(event.ID)
}

// Delete removes an event, but only for its organizer.
func (s *EventService) Delete(eventID, organizerID uint64) error {
	err := s.eventRepo.DeleteOwned(eventID, organizerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFoundOrUnauthorized
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// Get returns a hydrated event.
func (s *EventService) Get(eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindHydrated(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// List returns hydrated events ordered by start time.
func (s *EventService) List(params utils.PaginationParams) ([]models.Event, int64, error) {
	return s.eventRepo.List(params)
}

func validateEventInput(input EventInput) validation.FieldErrors {
	fields := validation.FieldErrors{}

	if input.Name == "" {
		fields["name"] = "Name is required"
	}
	if input.Description == "" {
		fields["description"] = "Description is required"
	}
	if input.Location == "" {
		fields["location"] = "Location is required"
	}

	if input.StartDateTime.IsZero() {
		fields["start_date_time"] = "Start date is required"
	}
	if input.EndDateTime.IsZero() {
		fields["end_date_time"] = "End date is required"
	}
	if !input.StartDateTime.IsZero() && !input.EndDateTime.IsZero() &&
		!input.EndDateTime.After(input.StartDateTime) {
		fields["end_date_time"] = "End date must be after start date"
	}

	if input.Category == "" {
		fields["category"] = "Category is required"
	} else if !models.IsValidCategory(input.Category) {
		fields["category"] = "Invalid category selected"
	}

	if input.Capacity < 1 {
		fields["capacity"] = "Capacity must be at least 1"
	}

	if input.TicketPrice < 0 {
		fields["ticket_price"] = "Ticket price cannot be negative"
	}

	if input.RegistrationDeadline != nil && !input.StartDateTime.IsZero() &&
		!input.RegistrationDeadline.Before(input.StartDateTime) {
		fields["registration_deadline"] = "Registration deadline must be before event start date"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
