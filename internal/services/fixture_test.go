package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/internal/repositories"
	"event-ticketing-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []recordedMessage
	err      error
}

type recordedMessage struct {
	key   string
	event queue.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, recordedMessage{key: routingKey, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		keys = append(keys, m.key)
	}
	return keys
}

type fixture struct {
	repo      *repositories.Repository
	publisher *recordingPublisher
	now       time.Time

	auth       *AuthService
	users      *UserService
	categories *CategoryService
	events     *EventService
	bookings   *BookingService
	reviews    *ReviewService
}

func newTestRepo(t *testing.T) *repositories.Repository {
	t.Helper()

	db, err := database.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.NewRepository(db)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      newTestRepo(t),
		publisher: &recordingPublisher{},
		now:       time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	cfg := &config.Config{
		JWTSecret:  "access-secret",
		JWTRefresh: "refresh-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	}

	f.auth = NewAuthService(f.repo, cfg)
	f.users = NewUserService(f.repo)
	f.categories = NewCategoryService(f.repo)
	f.events = NewEventService(f.repo, f.publisher)
	f.events.now = clock
	f.bookings = NewBookingService(f.repo, f.publisher)
	f.bookings.now = clock
	f.reviews = NewReviewService(f.repo)
	f.reviews.now = clock
	return f
}

func (f *fixture) user(t *testing.T, role models.Role) Actor {
	t.Helper()
	u := &models.User{
		Name:     "User " + string(role),
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, f.repo.UserRepo.CreateUser(u))
	return Actor{UserID: u.ID, Role: role}
}

func (f *fixture) organizer(t *testing.T) Actor { return f.user(t, models.RoleOrganizer) }
func (f *fixture) attendee(t *testing.T) Actor  { return f.user(t, models.RoleAttendee) }

func testLocation() LocationInput {
	return LocationInput{
		Address:    "1 Main Street",
		City:       "Berlin",
		State:      "BE",
		Country:    "DE",
		PostalCode: "10115",
	}
}

// eventRequest starts two days after the fixture clock with one ticket on sale now.
func (f *fixture) eventRequest(capacity int) CreateEventRequest {
	start := f.now.Add(48 * time.Hour)
	return CreateEventRequest{
		Name:        "Gophercon",
		Description: "Talks about Go",
		StartDate:   start,
		EndDate:     start.Add(8 * time.Hour),
		Capacity:    capacity,
		Location:    testLocation(),
		Tickets: []TicketInput{{
			Name:           "General",
			Price:          50,
			SalesStartDate: f.now.Add(-time.Hour),
			SalesEndDate:   start,
		}},
	}
}

func (f *fixture) event(t *testing.T, organizer Actor, capacity int) *EventResponse {
	t.Helper()
	ev, err := f.events.Create(f.eventRequest(capacity), organizer)
	require.NoError(t, err)
	require.Len(t, ev.Tickets, 1)
	return ev
}

func (f *fixture) book(t *testing.T, ev *EventResponse, actor Actor) *BookingResponse {
	t.Helper()
	b, err := f.bookings.Create(CreateBookingRequest{EventID: ev.ID, TicketID: ev.Tickets[0].ID}, actor)
	require.NoError(t, err)
	return b
}

// afterEvent moves the clock past the end of ev.
func (f *fixture) afterEvent(ev *EventResponse) {
	f.now = ev.EndDate.Add(time.Hour)
}

func requireCode(t *testing.T, err error, code ServiceErrorType) {
	t.Helper()
	require.Error(t, err)
	var serr *ServiceError
	require.True(t, errors.As(err, &serr), "expected ServiceError, got %T: %v", err, err)
	require.Equal(t, code, serr.Code, serr.Message)
}
