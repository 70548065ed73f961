package repositories

import (
	"errors"
	"fmt"
	"strings"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) CreateLocation(location *models.EventLocation) error {
	if location == nil {
		return errors.New("location cannot be nil")
	}
	return r.db.Create(location).Error
}

// UpdateLocation overwrites the address fields of an existing location
func (r *eventRepo) UpdateLocation(location *models.EventLocation) error {
	return r.db.Model(location).
		Select("address", "city", "state", "country", "postal_code", "google_maps_link").
		Updates(location).Error
}

// CreateEvent inserts the event row only. Location, images, tickets and
// categories are written through their own methods.
func (r *eventRepo) CreateEvent(event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	return r.db.Omit(clause.Associations).Create(event).Error
}

// GetEventByID retrieves an event by its ID without relations
func (r *eventRepo) GetEventByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	return &event, nil
}

// GetEventForUpdate takes a row lock on the event for the rest of the
// surrounding transaction. SQLite ignores the locking clause and relies on
// its single writer instead.
func (r *eventRepo) GetEventForUpdate(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	return &event, nil
}

// GetEventDetails retrieves an event with every relation a detail view needs
func (r *eventRepo) GetEventDetails(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.
		Preload("Organizer").
		Preload("Organizer.OrganizerProfile").
		Preload("Location").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_images.created_at ASC")
		}).
		Preload("Tickets", activeTickets).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.name ASC")
		}).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	return &event, nil
}

func activeTickets(db *gorm.DB) *gorm.DB {
	return db.Where("tickets.retired = ?", false).Order("tickets.price ASC")
}

func applyEventFilters(query *gorm.DB, filters *EventFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Search != "" {
		term := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(events.name) LIKE ? OR LOWER(events.description) LIKE ?", term, term)
	}
	if filters.City != "" {
		query = query.
			Joins("JOIN event_locations ON event_locations.id = events.location_id").
			Where("LOWER(event_locations.city) LIKE ?", "%"+strings.ToLower(filters.City)+"%")
	}
	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN event_categories ON event_categories.event_id = events.id").
			Where("event_categories.category_id = ?", *filters.CategoryID)
	}
	if filters.StartsAfter != nil {
		query = query.Where("events.start_date >= ?", *filters.StartsAfter)
	}
	if filters.EndsBefore != nil {
		query = query.Where("events.end_date <= ?", *filters.EndsBefore)
	}
	return query
}

// ListEvents retrieves a page of events matching filters, soonest first.
// The caller validates offset and limit.
func (r *eventRepo) ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := applyEventFilters(r.db.Model(&models.Event{}), filters).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	if err := applyEventFilters(r.db.Model(&models.Event{}), filters).
		Preload("Organizer").
		Preload("Location").
		Preload("Images").
		Preload("Tickets", activeTickets).
		Preload("Categories").
		Order("events.start_date ASC, events.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

func (r *eventRepo) ListEventsByOrganizer(organizerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.
		Preload("Location").
		Preload("Images").
		Preload("Tickets", activeTickets).
		Preload("Categories").
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) UpdateEvent(event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	return r.db.Omit(clause.Associations).Save(event).Error
}

// DeleteEvent removes the event with its location, images, tickets and
// category links. Bookings and reviews must already be gone.
func (r *eventRepo) DeleteEvent(event *models.Event) error {
	if err := r.db.Exec("DELETE FROM event_categories WHERE event_id = ?", event.ID).Error; err != nil {
		return fmt.Errorf("failed to delete event categories: %w", err)
	}
	if err := r.db.Where("event_id = ?", event.ID).Delete(&models.EventImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete event images: %w", err)
	}
	if err := r.db.Where("event_id = ?", event.ID).Delete(&models.Ticket{}).Error; err != nil {
		return fmt.Errorf("failed to delete event tickets: %w", err)
	}

	result := r.db.Where("id = ?", event.ID).Delete(&models.Event{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", event.ID, gorm.ErrRecordNotFound)
	}

	if err := r.db.Where("id = ?", event.LocationID).Delete(&models.EventLocation{}).Error; err != nil {
		return fmt.Errorf("failed to delete event location: %w", err)
	}
	return nil
}

func (r *eventRepo) ReplaceCategories(event *models.Event, categories []models.Category) error {
	if err := r.db.Model(event).Association("Categories").Replace(categories); err != nil {
		return fmt.Errorf("failed to set event categories: %w", err)
	}
	return nil
}

func (r *eventRepo) ReplaceImages(eventID uuid.UUID, urls []string) error {
	if err := r.db.Where("event_id = ?", eventID).Delete(&models.EventImage{}).Error; err != nil {
		return fmt.Errorf("failed to clear event images: %w", err)
	}
	if len(urls) == 0 {
		return nil
	}

	images := make([]models.EventImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.EventImage{EventID: eventID, ImageURL: url})
	}
	return r.db.Create(&images).Error
}

func (r *eventRepo) CreateTickets(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.Create(&tickets).Error
}

// ReplaceTickets swaps the event's sellable tickets for tickets. Old tickets
// still referenced by a booking are retired instead of deleted so that the
// booking, and the (user, event) uniqueness it carries, survives.
func (r *eventRepo) ReplaceTickets(eventID uuid.UUID, tickets []models.Ticket) error {
	referenced := r.db.Model(&models.Booking{}).Select("ticket_id").Where("event_id = ?", eventID)
	if err := r.db.
		Where("event_id = ? AND id NOT IN (?)", eventID, referenced).
		Delete(&models.Ticket{}).Error; err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}
	if err := r.db.Model(&models.Ticket{}).
		Where("event_id = ? AND retired = ?", eventID, false).
		Update("retired", true).Error; err != nil {
		return fmt.Errorf("failed to retire tickets: %w", err)
	}
	for i := range tickets {
		tickets[i].EventID = eventID
	}
	return r.CreateTickets(tickets)
}

func (r *eventRepo) GetTicketByID(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, fmt.Errorf("ticket %s: %w", id, err)
	}
	return &ticket, nil
}

func (r *eventRepo) GetTicketsByEventID(eventID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.db.Where("event_id = ? AND retired = ?", eventID, false).Order("price ASC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return tickets, nil
}
