package services

import (
	"fmt"
	"math"
	"testing"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCreate(t *testing.T) {
	t.Run("persists location tickets images and categories", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		music, err := f.categories.Create(CategoryRequest{Name: "Music"}, org)
		require.NoError(t, err)

		req := f.eventRequest(100)
		req.ImageURLs = []string{"http://localhost:3000/uploads/a.png"}
		req.CategoryIDs = []uuid.UUID{music.ID, music.ID}

		ev, err := f.events.Create(req, org)
		require.NoError(t, err)
		assert.Equal(t, "Berlin", ev.Location.City)
		assert.Equal(t, []string{"http://localhost:3000/uploads/a.png"}, ev.Images)
		require.Len(t, ev.Categories, 1)
		assert.Equal(t, "Music", ev.Categories[0].Name)
		assert.Equal(t, models.EventUpcoming, ev.Status)
		require.NotNil(t, ev.Organizer)
		assert.Equal(t, org.UserID, ev.Organizer.ID)
	})

	t.Run("attendees cannot create events", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.events.Create(f.eventRequest(10), f.attendee(t))
		requireCode(t, err, ErrForbidden)
	})

	t.Run("blank name or description is rejected", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)

		req := f.eventRequest(10)
		req.Name = "   "
		_, err := f.events.Create(req, org)
		requireCode(t, err, ErrBadRequest)

		req = f.eventRequest(10)
		req.Description = "\t "
		_, err = f.events.Create(req, org)
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("schedule validation", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)

		past := f.eventRequest(10)
		past.StartDate = f.now.Add(-time.Hour)
		past.Tickets[0].SalesEndDate = past.StartDate
		past.Tickets[0].SalesStartDate = past.StartDate.Add(-time.Hour)
		_, err := f.events.Create(past, org)
		requireCode(t, err, ErrBadRequest)

		inverted := f.eventRequest(10)
		inverted.EndDate = inverted.StartDate.Add(-time.Minute)
		_, err = f.events.Create(inverted, org)
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("ticket sales must close by the event start", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)

		req := f.eventRequest(10)
		req.StartDate = time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
		req.EndDate = req.StartDate.Add(8 * time.Hour)

		req.Tickets[0].SalesEndDate = time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
		_, err := f.events.Create(req, org)
		require.NoError(t, err)

		req.Tickets[0].SalesEndDate = time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
		_, err = f.events.Create(req, org)
		requireCode(t, err, ErrBadRequest)

		req.Tickets[0].SalesEndDate = req.Tickets[0].SalesStartDate
		_, err = f.events.Create(req, org)
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		req := f.eventRequest(10)
		req.CategoryIDs = []uuid.UUID{uuid.New()}

		_, err := f.events.Create(req, f.organizer(t))
		requireCode(t, err, ErrNotFound)
	})
}

func TestEventFindAll(t *testing.T) {
	t.Run("paginates", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		for i := 0; i < 25; i++ {
			req := f.eventRequest(10)
			req.Name = fmt.Sprintf("Event %02d", i)
			req.StartDate = req.StartDate.Add(time.Duration(i) * time.Hour)
			req.EndDate = req.StartDate.Add(time.Hour)
			req.Tickets[0].SalesEndDate = req.StartDate
			_, err := f.events.Create(req, org)
			require.NoError(t, err)
		}

		first, err := f.events.FindAll(EventQuery{Pagination: Pagination{Page: 1, Limit: 10}})
		require.NoError(t, err)
		assert.EqualValues(t, 25, first.Total)
		assert.Equal(t, 3, first.Pages)
		assert.Len(t, first.Items, 10)
		assert.Equal(t, "Event 00", first.Items[0].Name)

		last, err := f.events.FindAll(EventQuery{Pagination: Pagination{Page: 3, Limit: 10}})
		require.NoError(t, err)
		assert.Len(t, last.Items, 5)
		assert.Equal(t, "Event 24", last.Items[4].Name)

		beyond, err := f.events.FindAll(EventQuery{Pagination: Pagination{Page: 4, Limit: 10}})
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)
	})

	t.Run("rejects bad pagination", func(t *testing.T) {
		f := newFixture(t)
		for _, p := range []Pagination{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: MaxLimit + 1}, {Page: math.MaxInt/10 + 2, Limit: 10}} {
			_, err := f.events.FindAll(EventQuery{Pagination: p})
			requireCode(t, err, ErrBadRequest)
		}
	})

	t.Run("filters", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		jazz, err := f.categories.Create(CategoryRequest{Name: "Jazz"}, org)
		require.NoError(t, err)

		berlin := f.eventRequest(10)
		berlin.Name = "Jazz Night"
		berlin.CategoryIDs = []uuid.UUID{jazz.ID}
		_, err = f.events.Create(berlin, org)
		require.NoError(t, err)

		paris := f.eventRequest(10)
		paris.Name = "Code Camp"
		paris.Location.City = "Paris"
		paris.StartDate = paris.StartDate.Add(72 * time.Hour)
		paris.EndDate = paris.StartDate.Add(time.Hour)
		_, err = f.events.Create(paris, org)
		require.NoError(t, err)

		all := Pagination{Page: 1, Limit: 10}

		page, err := f.events.FindAll(EventQuery{Pagination: all, Search: "jazz"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Jazz Night", page.Items[0].Name)

		page, err = f.events.FindAll(EventQuery{Pagination: all, City: "paris"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Code Camp", page.Items[0].Name)

		page, err = f.events.FindAll(EventQuery{Pagination: all, CategoryID: &jazz.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.EqualValues(t, 1, page.Total)

		from := f.now.Add(96 * time.Hour)
		page, err = f.events.FindAll(EventQuery{Pagination: all, From: &from})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Code Camp", page.Items[0].Name)

		to := from.Add(-time.Hour)
		_, err = f.events.FindAll(EventQuery{Pagination: all, From: &from, To: &to})
		requireCode(t, err, ErrBadRequest)
	})
}

func TestEventUpdate(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 10)

		name := "Renamed"
		loc := testLocation()
		loc.City = "Hamburg"
		updated, err := f.events.Update(ev.ID, UpdateEventRequest{Name: &name, Location: &loc}, org)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "Hamburg", updated.Location.City)
		assert.Equal(t, ev.Description, updated.Description)
		assert.Equal(t, ev.Location.ID, updated.Location.ID)
	})

	t.Run("only the owner may update", func(t *testing.T) {
		f := newFixture(t)
		ev := f.event(t, f.organizer(t), 10)
		name := "Hijacked"

		_, err := f.events.Update(ev.ID, UpdateEventRequest{Name: &name}, f.organizer(t))
		requireCode(t, err, ErrForbidden)

		_, err = f.events.Update(uuid.New(), UpdateEventRequest{Name: &name}, f.organizer(t))
		requireCode(t, err, ErrNotFound)
	})

	t.Run("started events are frozen", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 10)
		f.now = ev.StartDate.Add(time.Minute)
		name := "Too late"

		_, err := f.events.Update(ev.ID, UpdateEventRequest{Name: &name}, org)
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("moving the start before ticket sales close is rejected", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 10)
		start := ev.StartDate.Add(-24 * time.Hour)

		_, err := f.events.Update(ev.ID, UpdateEventRequest{StartDate: &start}, org)
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("capacity cannot drop below confirmed bookings", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 3)
		f.book(t, ev, f.attendee(t))
		f.book(t, ev, f.attendee(t))

		one := 1
		_, err := f.events.Update(ev.ID, UpdateEventRequest{Capacity: &one}, org)
		requireCode(t, err, ErrBadRequest)

		two := 2
		_, err = f.events.Update(ev.ID, UpdateEventRequest{Capacity: &two}, org)
		require.NoError(t, err)
	})

	t.Run("raising capacity promotes the waitlist", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 1)
		f.book(t, ev, f.attendee(t))
		waiting := f.book(t, ev, f.attendee(t))
		require.Equal(t, models.BookingWaitlisted, waiting.Status)

		two := 2
		_, err := f.events.Update(ev.ID, UpdateEventRequest{Capacity: &two}, org)
		require.NoError(t, err)

		b, err := f.repo.BookingRepo.GetBookingByID(waiting.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, b.Status)
		assert.Contains(t, f.publisher.keys(), queue.BookingPromoted)
	})

	t.Run("tickets are only replaced without active bookings", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 10)
		user := f.attendee(t)
		b := f.book(t, ev, user)

		vip := []TicketInput{{
			Name:           "VIP",
			Price:          120,
			SalesStartDate: f.now.Add(-time.Hour),
			SalesEndDate:   ev.StartDate,
		}}
		_, err := f.events.Update(ev.ID, UpdateEventRequest{Tickets: vip}, org)
		requireCode(t, err, ErrBadRequest)

		require.NoError(t, f.bookings.Cancel(b.ID, user))
		updated, err := f.events.Update(ev.ID, UpdateEventRequest{Tickets: vip}, org)
		require.NoError(t, err)
		require.Len(t, updated.Tickets, 1)
		assert.Equal(t, "VIP", updated.Tickets[0].Name)

		cancelled, err := f.repo.BookingRepo.GetBookingByID(b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, cancelled.Status)

		_, err = f.bookings.Create(CreateBookingRequest{EventID: ev.ID, TicketID: updated.Tickets[0].ID}, user)
		requireCode(t, err, ErrConflict)

		_, err = f.bookings.Create(CreateBookingRequest{EventID: ev.ID, TicketID: ev.Tickets[0].ID}, f.attendee(t))
		requireCode(t, err, ErrBadRequest)

		fresh, err := f.bookings.Create(CreateBookingRequest{EventID: ev.ID, TicketID: updated.Tickets[0].ID}, f.attendee(t))
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, fresh.Status)

		analytics, err := f.events.GetEventAnalytics(ev.ID, org)
		require.NoError(t, err)
		assert.Equal(t, 1, analytics.Bookings.Cancelled)
		require.Len(t, analytics.TicketSales, 1)
		assert.Equal(t, "VIP", analytics.TicketSales[0].Name)
	})

	t.Run("blank name or description is rejected", func(t *testing.T) {
		f := newFixture(t)
		org := f.organizer(t)
		ev := f.event(t, org, 10)

		blank := "   "
		_, err := f.events.Update(ev.ID, UpdateEventRequest{Name: &blank}, org)
		requireCode(t, err, ErrBadRequest)
		_, err = f.events.Update(ev.ID, UpdateEventRequest{Description: &blank}, org)
		requireCode(t, err, ErrBadRequest)

		got, err := f.events.FindOne(ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ev.Name, got.Name)
	})
}

func TestEventRemove(t *testing.T) {
	f := newFixture(t)
	org := f.organizer(t)
	ev := f.event(t, org, 10)
	user := f.attendee(t)
	b := f.book(t, ev, user)

	requireCode(t, f.events.Remove(ev.ID, f.organizer(t)), ErrForbidden)
	requireCode(t, f.events.Remove(ev.ID, org), ErrConflict)

	require.NoError(t, f.bookings.Cancel(b.ID, user))
	require.NoError(t, f.events.Remove(ev.ID, org))

	_, err := f.events.FindOne(ev.ID)
	requireCode(t, err, ErrNotFound)
	requireCode(t, f.events.Remove(ev.ID, org), ErrNotFound)
}

func TestGetMyEvents(t *testing.T) {
	f := newFixture(t)
	org := f.organizer(t)
	f.event(t, org, 10)
	f.event(t, org, 10)
	f.event(t, f.organizer(t), 10)

	mine, err := f.events.GetMyEvents(org)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.events.GetMyEvents(f.attendee(t))
	requireCode(t, err, ErrForbidden)
}
