package repositories

import (
	"time"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	DB           *gorm.DB
	UserRepo     UserRepository
	EventRepo    EventRepository
	CategoryRepo CategoryRepository
	BookingRepo  BookingRepository
	ReviewRepo   ReviewRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:           db,
		UserRepo:     NewUserRepository(db),
		EventRepo:    NewEventRepository(db),
		CategoryRepo: NewCategoryRepository(db),
		BookingRepo:  NewBookingRepository(db),
		ReviewRepo:   NewReviewRepository(db),
	}
}

// Transaction runs fn against repositories bound to a single database
// transaction. Any error returned by fn rolls the whole unit back.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.OrganizerProfile{},
		&models.Category{},
		&models.EventLocation{},
		&models.Event{},
		&models.EventImage{},
		&models.Ticket{},
		&models.Booking{},
		&models.Review{},
	)
}

// Interface definitions
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserWithProfile(id uuid.UUID) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	CreateOrganizerProfile(profile *models.OrganizerProfile) error
	UpdateRefreshTokenHash(id uuid.UUID, hash *string) error
}

type CategoryRepository interface {
	CreateCategory(category *models.Category) error
	GetCategoryByID(id uuid.UUID) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	GetCategoriesByIDs(ids []uuid.UUID) ([]models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uuid.UUID) error
}

type EventFilters struct {
	Search      string
	City        string
	CategoryID  *uuid.UUID
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

type EventRepository interface {
	CreateLocation(location *models.EventLocation) error
	UpdateLocation(location *models.EventLocation) error
	CreateEvent(event *models.Event) error
	GetEventByID(id uuid.UUID) (*models.Event, error)
	GetEventForUpdate(id uuid.UUID) (*models.Event, error)
	GetEventDetails(id uuid.UUID) (*models.Event, error)
	ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error)
	ListEventsByOrganizer(organizerID uuid.UUID) ([]models.Event, error)
	UpdateEvent(event *models.Event) error
	DeleteEvent(event *models.Event) error

	ReplaceCategories(event *models.Event, categories []models.Category) error
	ReplaceImages(eventID uuid.UUID, urls []string) error

	CreateTickets(tickets []models.Ticket) error
	ReplaceTickets(eventID uuid.UUID, tickets []models.Ticket) error
	GetTicketByID(id uuid.UUID) (*models.Ticket, error)
	GetTicketsByEventID(eventID uuid.UUID) ([]models.Ticket, error)
}

type BookingRepository interface {
	CreateBooking(booking *models.Booking) error
	GetBookingByID(id uuid.UUID) (*models.Booking, error)
	GetBookingDetails(id uuid.UUID) (*models.Booking, error)
	GetBookingByUserAndEvent(userID, eventID uuid.UUID) (*models.Booking, error)
	GetConfirmedBooking(userID, eventID uuid.UUID) (*models.Booking, error)
	GetOldestWaitlisted(eventID uuid.UUID) (*models.Booking, error)
	ListBookingsByUser(userID uuid.UUID, offset, limit int, status *models.BookingStatus) ([]models.Booking, int64, error)
	ListBookingsByEvent(eventID uuid.UUID) ([]models.Booking, error)
	ListBookingsByEvents(eventIDs []uuid.UUID) ([]models.Booking, error)
	CountBookingsByStatus(eventID uuid.UUID, statuses ...models.BookingStatus) (int64, error)
	UpdateBookingStatus(id uuid.UUID, status models.BookingStatus) error
	DeleteBookingsByEvent(eventID uuid.UUID) error
}

type ReviewRepository interface {
	CreateReview(review *models.Review) error
	GetReviewByID(id uuid.UUID) (*models.Review, error)
	GetReviewDetails(id uuid.UUID) (*models.Review, error)
	GetReviewByUserAndEvent(userID, eventID uuid.UUID) (*models.Review, error)
	ListReviewsByEvent(eventID uuid.UUID, offset, limit int, rating *int) ([]models.Review, int64, error)
	ListReviewsByUser(userID uuid.UUID) ([]models.Review, error)
	ListRatingsByEvent(eventID uuid.UUID) ([]int, error)
	UpdateReview(review *models.Review) error
	DeleteReview(id uuid.UUID) error
	DeleteReviewsByEvent(eventID uuid.UUID) error
}
