package models

import "time"

type AttendanceStatus string

const (
	AttendanceConfirmed  AttendanceStatus = "confirmed"
	AttendanceWaitlisted AttendanceStatus = "waitlisted"
	AttendanceCancelled  AttendanceStatus = "cancelled"
)

// Attendance links one user to one event. The composite primary key enforces
// at most one attendance per (event, user) pair; cancelling an RSVP deletes
// the row outright rather than flipping the status.
type Attendance struct {
	EventID          uint64           `gorm:"primarykey" json:"event_id"`
	UserID           uint64           `gorm:"primarykey" json:"user_id"`
	RegistrationDate time.Time        `gorm:"not null" json:"registration_date"`
	Status           AttendanceStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
