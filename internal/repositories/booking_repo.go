package repositories

import (
	"errors"
	"fmt"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepo struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) CreateBooking(booking *models.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	return r.db.Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepo) GetBookingByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetBookingDetails retrieves a booking with its user, event and ticket
func (r *bookingRepo) GetBookingDetails(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.
		Preload("User").
		Preload("Event").
		Preload("Event.Location").
		Preload("Event.Images").
		Preload("Ticket").
		Where("id = ?", id).
		First(&booking).Error; err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *bookingRepo) GetBookingByUserAndEvent(userID, eventID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) GetConfirmedBooking(userID, eventID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.BookingConfirmed).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetOldestWaitlisted returns the next booking in line for a freed seat
func (r *bookingRepo) GetOldestWaitlisted(eventID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.
		Where("event_id = ? AND status = ?", eventID, models.BookingWaitlisted).
		Order("created_at ASC, id ASC").
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookingsByUser retrieves a page of the user's bookings, newest first
func (r *bookingRepo) ListBookingsByUser(userID uuid.UUID, offset, limit int, status *models.BookingStatus) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := func() *gorm.DB {
		q := r.db.Model(&models.Booking{}).Where("user_id = ?", userID)
		if status != nil {
			q = q.Where("status = ?", *status)
		}
		return q
	}

	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	if err := query().
		Preload("User").
		Preload("Event").
		Preload("Event.Location").
		Preload("Event.Images").
		Preload("Ticket").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepo) ListBookingsByEvent(eventID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.
		Preload("User").
		Preload("Ticket").
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list event bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingsByEvents loads bookings with their tickets for analytics
func (r *bookingRepo) ListBookingsByEvents(eventIDs []uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if len(eventIDs) == 0 {
		return bookings, nil
	}
	if err := r.db.
		Preload("Ticket").
		Where("event_id IN ?", eventIDs).
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepo) CountBookingsByStatus(eventID uuid.UUID, statuses ...models.BookingStatus) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Booking{}).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepo) UpdateBookingStatus(id uuid.UUID, status models.BookingStatus) error {
	result := r.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *bookingRepo) DeleteBookingsByEvent(eventID uuid.UUID) error {
	return r.db.Where("event_id = ?", eventID).Delete(&models.Booking{}).Error
}
