package dto

import (
	"time"

	"github.com/camphub/campus-events-api/internal/models"
)

// AttendanceDTO represents an attendance entry in API responses
type AttendanceDTO struct {
	User             UserSummaryDTO          `json:"user"`
	RegistrationDate time.Time               `json:"registration_date"`
	Status           models.AttendanceStatus `json:"status"`
}

// EventDTO represents a fully hydrated event in API responses
type EventDTO struct {
	ID                   uint64               `json:"id"`
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	StartDateTime        time.Time            `json:"start_date_time"`
	EndDateTime          time.Time            `json:"end_date_time"`
	Location             string               `json:"location"`
	Category             models.EventCategory `json:"category"`
	Capacity             int                  `json:"capacity"`
	Status               models.EventStatus   `json:"status"`
	TicketPrice          float64              `json:"ticket_price"`
	Tags                 []string             `json:"tags,omitempty"`
	ImageURL             string               `json:"image_url,omitempty"`
	IsPrivate            bool                 `json:"is_private"`
	RegistrationDeadline *time.Time           `json:"registration_deadline,omitempty"`
	OrganizerID          uint64               `json:"organizer_id"`
	Organizer            *UserSummaryDTO      `json:"organizer,omitempty"`
	Attendees            []AttendanceDTO      `json:"attendees"`
	AttendeeCount        int                  `json:"attendee_count"`
	IsFull               bool                 `json:"is_full"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events     []EventDTO `json:"events"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
}

// ToAttendanceDTO converts an Attendance model to AttendanceDTO
func ToAttendanceDTO(a models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		User:             ToUserSummaryDTO(a.User),
		RegistrationDate: a.RegistrationDate,
		Status:           a.Status,
	}
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event) EventDTO {
	dto := EventDTO{
		ID:                   event.ID,
		Name:                 event.Name,
		Description:          event.Description,
		StartDateTime:        event.StartDateTime,
		EndDateTime:          event.EndDateTime,
		Location:             event.Location,
		Category:             event.Category,
		Capacity:             event.Capacity,
		Status:               event.Status,
		TicketPrice:          event.TicketPrice,
		Tags:                 event.Tags,
		ImageURL:             event.ImageURL,
		IsPrivate:            event.IsPrivate,
		RegistrationDeadline: event.RegistrationDeadline,
		OrganizerID:          event.OrganizerID,
		AttendeeCount:        event.ConfirmedCount(),
		IsFull:               event.IsFull(),
		CreatedAt:            event.CreatedAt,
		UpdatedAt:            event.UpdatedAt,
	}

	// Include organizer if preloaded
	if event.Organizer.ID != 0 {
		organizer := ToUserSummaryDTO(event.Organizer)
		dto.Organizer = &organizer
	}

	dto.Attendees = make([]AttendanceDTO, len(event.Attendees))
	for i, a := range event.Attendees {
		dto.Attendees[i] = ToAttendanceDTO(a)
	}

	return dto
}

// ToEventListResponse converts a slice of events to EventListResponse
func ToEventListResponse(events []models.Event, page, pageSize int, totalCount int64) EventListResponse {
	items := make([]EventDTO, len(events))
	for i, event := range events {
		items[i] = ToEventDTO(event)
	}

	return EventListResponse{
		Events:     items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
