package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/utils"
	"github.com/camphub/campus-events-api/internal/validation"
)

func validEventInput() EventInput {
	start := time.Now().Add(48 * time.Hour)
	return EventInput{
		Name:          "Spring Hackathon",
		Description:   "24h build sprint",
		StartDateTime: start,
		EndDateTime:   start.Add(24 * time.Hour),
		Location:      "Engineering Building",
		Category:      models.CategoryWorkshop,
		Capacity:      50,
	}
}

func TestCreateEventValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(repository.NewEventRepository(db))
	organizer := createTestUser(t, db, "organizer")

	tests := []struct {
		name   string
		mutate func(*EventInput)
		field  string
	}{
		{"missing name", func(in *EventInput) { in.Name = "" }, "name"},
		{"missing description", func(in *EventInput) { in.Description = "" }, "description"},
		{"missing location", func(in *EventInput) { in.Location = "" }, "location"},
		{"end before start", func(in *EventInput) { in.EndDateTime = in.StartDateTime.Add(-time.Hour) }, "end_date_time"},
		{"bad category", func(in *EventInput) { in.Category = "festival" }, "category"},
		{"zero capacity", func(in *EventInput) { in.Capacity = 0 }, "capacity"},
		{"negative price", func(in *EventInput) { in.TicketPrice = -1 }, "ticket_price"},
		{"deadline after start", func(in *EventInput) {
			late := in.StartDateTime.Add(time.Hour)
			in.RegistrationDeadline = &late
		}, "registration_deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validEventInput()
			tt.mutate(&input)

			_, err := svc.Create(organizer.ID, input)

			var fields validation.FieldErrors
			require.True(t, errors.As(err, &fields))
			require.Contains(t, fields, tt.field)
		})
	}
}

func TestCreateEventDefaultsToPublished(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(repository.NewEventRepository(db))
	organizer := createTestUser(t, db, "organizer")

	event, err := svc.Create(organizer.ID, validEventInput())
	require.NoError(t, err)
	require.Equal(t, models.EventStatusPublished, event.Status)
	require.Equal(t, organizer.ID, event.OrganizerID)
	require.Equal(t, organizer.Username, event.Organizer.Username)
}

func TestUpdateEventOwnershipScope(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(repository.NewEventRepository(db))

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	event := createTestEvent(t, db, owner.ID, 10)

	input := validEventInput()
	input.Name = "Renamed"

	// A non-owner cannot tell a foreign event from a missing one.
	_, err := svc.Update(event.ID, other.ID, input)
	require.ErrorIs(t, err, ErrEventNotFoundOrUnauthorized)

	_, err = svc.Update(9999, owner.ID, input)
	require.ErrorIs(t, err, ErrEventNotFoundOrUnauthorized)

	updated, err := svc.Update(event.ID, owner.ID, input)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestDeleteEventOwnershipScope(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(repository.NewEventRepository(db))

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	event := createTestEvent(t, db, owner.ID, 10)

	require.ErrorIs(t, svc.Delete(event.ID, other.ID), ErrEventNotFoundOrUnauthorized)
	require.NoError(t, svc.Delete(event.ID, owner.ID))

	_, err := svc.Get(event.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestListEventsOrderedByStart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(repository.NewEventRepository(db))
	organizer := createTestUser(t, db, "organizer")

	later := createTestEvent(t, db, organizer.ID, 10)
	require.NoError(t, db.Model(later).Update("start_date_time", time.Now().Add(72*time.Hour)).Error)
	sooner := createTestEvent(t, db, organizer.ID, 10)
	require.NoError(t, db.Model(sooner).Update("start_date_time", time.Now().Add(12*time.Hour)).Error)

	events, total, err := svc.List(utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, sooner.ID, events[0].ID)
	require.Equal(t, later.ID, events[1].ID)
}
