package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Attendance{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every goroutine on the same in-memory
	// database and serialises transactions the way a server-grade database
	// would with row locks.
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.edu",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, organizerID uint64, capacity int) *models.Event {
	t.Helper()

	start := time.Now().Add(24 * time.Hour)
	event := &models.Event{
		Name:          "Intro to Distributed Systems",
		Description:   "Guest lecture",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		Location:      "Hall B",
		Category:      models.CategorySeminar,
		Capacity:      capacity,
		Status:        models.EventStatusPublished,
		OrganizerID:   organizerID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestReserveAndCancelScenario(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	u1 := createTestUser(t, db, "u1")
	u2 := createTestUser(t, db, "u2")
	u3 := createTestUser(t, db, "u3")
	event := createTestEvent(t, db, organizer.ID, 2)

	updated, err := svc.Reserve(event.ID, u1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, updated.ConfirmedCount())

	updated, err = svc.Reserve(event.ID, u2.ID)
	require.NoError(t, err)
	require.Equal(t, 2, updated.ConfirmedCount())

	_, err = svc.Reserve(event.ID, u3.ID)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	updated, err = svc.Cancel(event.ID, u1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, updated.ConfirmedCount())

	updated, err = svc.Reserve(event.ID, u3.ID)
	require.NoError(t, err)
	require.Equal(t, 2, updated.ConfirmedCount())
}

func TestReserveDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "attendee")
	event := createTestEvent(t, db, organizer.ID, 5)

	_, err := svc.Reserve(event.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Reserve(event.ID, user.ID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestDuplicateAgainstFullEventReportsCapacity(t *testing.T) {
	// Capacity is checked before duplication, so a user already registered
	// on a full event sees the capacity failure.
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "attendee")
	event := createTestEvent(t, db, organizer.ID, 1)

	_, err := svc.Reserve(event.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Reserve(event.ID, user.ID)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCapacityOneBoundary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	u1 := createTestUser(t, db, "u1")
	u2 := createTestUser(t, db, "u2")
	event := createTestEvent(t, db, organizer.ID, 1)

	updated, err := svc.Reserve(event.ID, u1.ID)
	require.NoError(t, err)
	require.True(t, updated.IsFull())

	_, err = svc.Reserve(event.ID, u2.ID)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCancelIsIdempotentFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	u1 := createTestUser(t, db, "u1")
	u2 := createTestUser(t, db, "u2")
	event := createTestEvent(t, db, organizer.ID, 5)

	_, err := svc.Reserve(event.ID, u1.ID)
	require.NoError(t, err)
	_, err = svc.Reserve(event.ID, u2.ID)
	require.NoError(t, err)

	updated, err := svc.Cancel(event.ID, u1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, updated.ConfirmedCount())

	// Second cancel fails and never touches the remaining attendance.
	_, err = svc.Cancel(event.ID, u1.ID)
	require.ErrorIs(t, err, ErrNotRegistered)

	var remaining []models.Attendance
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, u2.ID, remaining[0].UserID)
}

func TestReserveThenCancelRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "attendee")
	event := createTestEvent(t, db, organizer.ID, 3)

	_, err := svc.Reserve(event.ID, user.ID)
	require.NoError(t, err)

	updated, err := svc.Cancel(event.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, updated.ConfirmedCount())
	require.Empty(t, updated.Attendees)
}

func TestReserveMissingEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	user := createTestUser(t, db, "attendee")

	_, err := svc.Reserve(9999, user.ID)
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Cancel(9999, user.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestConcurrentReservesNeverExceedCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRSVPService(repository.NewEventRepository(db))

	organizer := createTestUser(t, db, "organizer")
	event := createTestEvent(t, db, organizer.ID, 3)

	const attempts = 12
	users := make([]*models.User, attempts)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("user%02d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(event.ID, users[i].ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}
	require.Equal(t, event.Capacity, succeeded)

	var confirmed int64
	err := db.Model(&models.Attendance{}).
		Where("event_id = ? AND status = ?", event.ID, models.AttendanceConfirmed).
		Count(&confirmed).Error
	require.NoError(t, err)
	require.Equal(t, int64(event.Capacity), confirmed)
}
