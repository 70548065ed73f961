package repositories

import (
	"errors"
	"testing"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepository(db)
}

func seedUser(t *testing.T, repo *Repository, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: "Test", Email: uuid.NewString() + "@example.com", Password: "x", Role: role}
	require.NoError(t, repo.UserRepo.CreateUser(user))
	return user
}

func seedEvent(t *testing.T, repo *Repository, organizer *models.User, name, city string, start time.Time) (*models.Event, models.Ticket) {
	t.Helper()

	location := &models.EventLocation{Address: "1 Main Street", City: city, State: "S", Country: "C", PostalCode: "1"}
	require.NoError(t, repo.EventRepo.CreateLocation(location))

	event := &models.Event{
		Name:        name,
		Description: name + " description",
		StartDate:   start,
		EndDate:     start.Add(4 * time.Hour),
		Capacity:    10,
		OrganizerID: organizer.ID,
		LocationID:  location.ID,
	}
	require.NoError(t, repo.EventRepo.CreateEvent(event))

	tickets := []models.Ticket{{
		EventID:        event.ID,
		Name:           "General",
		Price:          20,
		SalesStartDate: start.Add(-72 * time.Hour),
		SalesEndDate:   start,
	}}
	require.NoError(t, repo.EventRepo.CreateTickets(tickets))
	return event, tickets[0]
}

func TestListEventsFilters(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	base := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)

	rock, _ := seedEvent(t, repo, organizer, "Rock Night", "Berlin", base)
	seedEvent(t, repo, organizer, "Go Meetup", "Munich", base.Add(24*time.Hour))
	seedEvent(t, repo, organizer, "Jazz Brunch", "Berlin", base.Add(48*time.Hour))

	music := &models.Category{Name: "Music"}
	require.NoError(t, repo.CategoryRepo.CreateCategory(music))
	require.NoError(t, repo.EventRepo.ReplaceCategories(rock, []models.Category{*music}))

	events, total, err := repo.EventRepo.ListEvents(0, 2, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, events, 2)
	assert.Equal(t, "Rock Night", events[0].Name)
	assert.Equal(t, "Berlin", events[0].Location.City)
	assert.Len(t, events[0].Tickets, 1)

	events, total, err = repo.EventRepo.ListEvents(0, 10, &EventFilters{City: "berlin"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, events, 2)

	events, total, err = repo.EventRepo.ListEvents(0, 10, &EventFilters{Search: "MEETUP"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Go Meetup", events[0].Name)

	events, _, err = repo.EventRepo.ListEvents(0, 10, &EventFilters{CategoryID: &music.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, rock.ID, events[0].ID)

	after := base.Add(time.Hour)
	before := base.Add(30 * time.Hour)
	events, _, err = repo.EventRepo.ListEvents(0, 10, &EventFilters{StartsAfter: &after, EndsBefore: &before})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Go Meetup", events[0].Name)
}

func TestUpdateLocationKeepsCreatedAt(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	event, _ := seedEvent(t, repo, organizer, "Rock Night", "Berlin", time.Now().UTC().Add(24*time.Hour))

	details, err := repo.EventRepo.GetEventDetails(event.ID)
	require.NoError(t, err)
	created := details.Location.CreatedAt

	location := models.EventLocation{Address: "2 Side Street", City: "Hamburg", State: "HH", Country: "DE", PostalCode: "20095"}
	location.ID = details.Location.ID
	require.NoError(t, repo.EventRepo.UpdateLocation(&location))

	details, err = repo.EventRepo.GetEventDetails(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hamburg", details.Location.City)
	assert.True(t, created.Equal(details.Location.CreatedAt))
}

func TestBookingUniquePerUserAndEvent(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	attendee := seedUser(t, repo, models.RoleAttendee)
	event, ticket := seedEvent(t, repo, organizer, "Rock Night", "Berlin", time.Now().UTC().Add(24*time.Hour))

	first := &models.Booking{UserID: attendee.ID, EventID: event.ID, TicketID: ticket.ID, Status: models.BookingConfirmed}
	require.NoError(t, repo.BookingRepo.CreateBooking(first))

	again := &models.Booking{UserID: attendee.ID, EventID: event.ID, TicketID: ticket.ID, Status: models.BookingWaitlisted}
	err := repo.BookingRepo.CreateBooking(again)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestBookingCountsAndWaitlistOrder(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	event, ticket := seedEvent(t, repo, organizer, "Rock Night", "Berlin", time.Now().UTC().Add(24*time.Hour))

	statuses := []models.BookingStatus{
		models.BookingConfirmed,
		models.BookingWaitlisted,
		models.BookingWaitlisted,
		models.BookingCancelled,
	}
	var ids []uuid.UUID
	for _, status := range statuses {
		b := &models.Booking{UserID: seedUser(t, repo, models.RoleAttendee).ID, EventID: event.ID, TicketID: ticket.ID, Status: status}
		require.NoError(t, repo.BookingRepo.CreateBooking(b))
		ids = append(ids, b.ID)
		time.Sleep(2 * time.Millisecond)
	}

	confirmed, err := repo.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, confirmed)

	active, err := repo.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed, models.BookingWaitlisted)
	require.NoError(t, err)
	assert.EqualValues(t, 3, active)

	next, err := repo.BookingRepo.GetOldestWaitlisted(event.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[1], next.ID)

	require.NoError(t, repo.BookingRepo.UpdateBookingStatus(next.ID, models.BookingConfirmed))
	next, err = repo.BookingRepo.GetOldestWaitlisted(event.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[2], next.ID)

	err = repo.BookingRepo.UpdateBookingStatus(uuid.New(), models.BookingCancelled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCategoryDetachesEvents(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	event, _ := seedEvent(t, repo, organizer, "Rock Night", "Berlin", time.Now().UTC().Add(24*time.Hour))

	music := &models.Category{Name: "Music"}
	require.NoError(t, repo.CategoryRepo.CreateCategory(music))
	require.NoError(t, repo.EventRepo.ReplaceCategories(event, []models.Category{*music}))

	require.NoError(t, repo.CategoryRepo.DeleteCategory(music.ID))

	details, err := repo.EventRepo.GetEventDetails(event.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Categories)

	assert.ErrorIs(t, repo.CategoryRepo.DeleteCategory(music.ID), gorm.ErrRecordNotFound)

	found, err := repo.CategoryRepo.GetCategoryByName("music")
	assert.Nil(t, found)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	boom := errors.New("boom")

	err := repo.Transaction(func(tx *Repository) error {
		require.NoError(t, tx.CategoryRepo.CreateCategory(&models.Category{Name: "Music"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	categories, err := repo.CategoryRepo.ListCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestUpdateRefreshTokenHash(t *testing.T) {
	repo := newTestRepository(t)
	user := seedUser(t, repo, models.RoleAttendee)

	hash := "digest"
	require.NoError(t, repo.UserRepo.UpdateRefreshTokenHash(user.ID, &hash))
	stored, err := repo.UserRepo.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, "digest", *stored.RefreshTokenHash)

	err = repo.UserRepo.UpdateRefreshTokenHash(uuid.New(), nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReplaceTicketsRetiresBookedTickets(t *testing.T) {
	repo := newTestRepository(t)
	organizer := seedUser(t, repo, models.RoleOrganizer)
	start := time.Now().UTC().Add(48 * time.Hour)
	event, booked := seedEvent(t, repo, organizer, "Rock Night", "Berlin", start)

	spare := []models.Ticket{{EventID: event.ID, Name: "Spare", Price: 5, SalesStartDate: start.Add(-time.Hour), SalesEndDate: start}}
	require.NoError(t, repo.EventRepo.CreateTickets(spare))

	attendee := seedUser(t, repo, models.RoleAttendee)
	booking := &models.Booking{UserID: attendee.ID, EventID: event.ID, TicketID: booked.ID, Status: models.BookingCancelled}
	require.NoError(t, repo.BookingRepo.CreateBooking(booking))

	vip := []models.Ticket{{Name: "VIP", Price: 99, SalesStartDate: start.Add(-time.Hour), SalesEndDate: start}}
	require.NoError(t, repo.EventRepo.ReplaceTickets(event.ID, vip))

	active, err := repo.EventRepo.GetTicketsByEventID(event.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "VIP", active[0].Name)

	details, err := repo.EventRepo.GetEventDetails(event.ID)
	require.NoError(t, err)
	require.Len(t, details.Tickets, 1)
	assert.Equal(t, "VIP", details.Tickets[0].Name)

	retired, err := repo.EventRepo.GetTicketByID(booked.ID)
	require.NoError(t, err)
	assert.True(t, retired.Retired)

	_, err = repo.EventRepo.GetTicketByID(spare[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := repo.BookingRepo.GetBookingByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booked.ID, kept.TicketID)
}
