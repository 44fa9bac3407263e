package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Preferences  []string   `gorm:"serializer:json" json:"preferences"`
	ProfileImage string     `gorm:"type:varchar(255);default:'default-profile.png'" json:"profile_image"`

	// Password reset state. Cleared when the token is consumed.
	ResetPasswordToken  *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetPasswordExpiry *time.Time `json:"-"`

	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OrganizedEvents []Event      `gorm:"foreignKey:OrganizerID" json:"-"`
	Attendances     []Attendance `gorm:"foreignKey:UserID" json:"-"`
}
