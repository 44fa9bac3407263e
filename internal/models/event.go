package models

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type EventCategory string

const (
	CategoryConference EventCategory = "conference"
	CategoryWorkshop   EventCategory = "workshop"
	CategorySeminar    EventCategory = "seminar"
	CategoryNetworking EventCategory = "networking"
	CategorySocial     EventCategory = "social"
	CategoryOther      EventCategory = "other"
)

// EventCategories lists every valid category value.
var EventCategories = []EventCategory{
	CategoryConference,
	CategoryWorkshop,
	CategorySeminar,
	CategoryNetworking,
	CategorySocial,
	CategoryOther,
}

// IsValidCategory reports whether the given value is a known event category.
func IsValidCategory(c EventCategory) bool {
	for _, v := range EventCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Event struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	Description   string        `gorm:"type:text;not null" json:"description"`
	StartDateTime time.Time     `gorm:"not null;index:idx_events_start_status" json:"start_date_time"`
	EndDateTime   time.Time     `gorm:"not null" json:"end_date_time"`
	Location      string        `gorm:"type:varchar(255);not null" json:"location"`
	Category      EventCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Capacity      int           `gorm:"not null" json:"capacity"`
	Status        EventStatus   `gorm:"type:varchar(20);not null;default:'published';index:idx_events_start_status" json:"status"`

	TicketPrice          float64    `gorm:"default:0" json:"ticket_price"`
	Tags                 []string   `gorm:"serializer:json" json:"tags"`
	ImageURL             string     `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsPrivate            bool       `gorm:"default:false" json:"is_private"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`

	OrganizerID uint64         `gorm:"not null;index" json:"organizer_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organizer User         `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Attendees []Attendance `gorm:"foreignKey:EventID" json:"attendees,omitempty"`
}

// ConfirmedCount returns the number of confirmed attendances. Only confirmed
// entries count against capacity.
func (e *Event) ConfirmedCount() int {
	count := 0
	for _, a := range e.Attendees {
		if a.Status == AttendanceConfirmed {
			count++
		}
	}
	return count
}

// IsFull reports whether the event has reached its capacity.
func (e *Event) IsFull() bool {
	return e.ConfirmedCount() >= e.Capacity
}
