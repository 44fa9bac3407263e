package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camphub/campus-events-api/internal/database"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/utils"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// Update persists changes to an existing event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// FindByID finds an event by ID without hydrating relations
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindHydrated finds an event with organizer and attendee users preloaded.
// Attendees come back in registration order.
func (r *GormEventRepository) FindHydrated(id uint64) (*models.Event, error) {
	var event models.Event
	err := r.db.
		Preload("Organizer").
		Preload("Attendees", attendeesByRegistration).
		Preload("Attendees.User").
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// attendeesByRegistration orders preloaded attendances by registration time.
// Without it the row order is whatever the storage engine returns, which
// drifts after deletes on mysql/postgres.
func attendeesByRegistration(db *gorm.DB) *gorm.DB {
	return db.Order("attendances.registration_date ASC")
}

// FindOwned finds an event only when it belongs to the given organizer
func (r *GormEventRepository) FindOwned(id, organizerID uint64) (*models.Event, error) {
	var event models.Event
	err := r.db.
		Where("id = ? AND organizer_id = ?", id, organizerID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteOwned deletes an event only when it belongs to the given organizer
func (r *GormEventRepository) DeleteOwned(id, organizerID uint64) error {
	result := r.db.
		Where("id = ? AND organizer_id = ?", id, organizerID).
		Delete(&models.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns hydrated events ordered by start time, with pagination
func (r *GormEventRepository) List(params utils.PaginationParams) ([]models.Event, int64, error) {
	var total int64
	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := r.db.
		Preload("Organizer").
		Preload("Attendees", attendeesByRegistration).
		Preload("Attendees.User").
		Order("start_date_time ASC").
		Scopes(database.Paginate(params)).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByAttendee returns events the given user has an attendance on
func (r *GormEventRepository) ListByAttendee(userID uint64) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Preload("Organizer").
		Joins("JOIN attendances ON attendances.event_id = events.id").
		Where("attendances.user_id = ?", userID).
		Order("events.start_date_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Reserve appends a confirmed attendance inside a single transaction that
// holds a row-level lock on the event. Two concurrent reservations against
// the same near-full event serialise on that lock, so both can never observe
// free capacity. Capacity is checked before duplication, so a duplicate
// attempt against a full event reports ErrEventFull.
func (r *GormEventRepository) Reserve(eventID, userID uint64, now time.Time) (*models.Event, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, eventID).Error; err != nil {
			return err
		}

		var confirmed int64
		err := tx.Model(&models.Attendance{}).
			Where("event_id = ? AND status = ?", eventID, models.AttendanceConfirmed).
			Count(&confirmed).Error
		if err != nil {
			return err
		}
		if confirmed >= int64(event.Capacity) {
			return ErrEventFull
		}

		var existing int64
		err = tx.Model(&models.Attendance{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		attendance := models.Attendance{
			EventID:          eventID,
			UserID:           userID,
			RegistrationDate: now,
			Status:           models.AttendanceConfirmed,
		}
		return tx.Create(&attendance).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindHydrated(eventID)
}

// CancelReservation removes the user's attendance inside the same per-event
// lock as Reserve. The row is hard-deleted; cancelling twice reports
// ErrNotRegistered on the second call.
func (r *GormEventRepository) CancelReservation(eventID, userID uint64) (*models.Event, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, eventID).Error; err != nil {
			return err
		}

		result := tx.
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.Attendance{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotRegistered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindHydrated(eventID)
}

// lockForUpdate applies SELECT ... FOR UPDATE where the dialect supports it.
// SQLite has no row locks; its single-writer transaction model serialises
// writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
