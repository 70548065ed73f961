package repositories

import (
	"errors"
	"fmt"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) CreateReview(review *models.Review) error {
	if review == nil {
		return errors.New("review cannot be nil")
	}
	return r.db.Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepo) GetReviewByID(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("id = ?", id).First(&review).Error; err != nil {
		return nil, fmt.Errorf("review %s: %w", id, err)
	}
	return &review, nil
}

func (r *reviewRepo) GetReviewDetails(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.
		Preload("User").
		Preload("Event").
		Where("id = ?", id).
		First(&review).Error; err != nil {
		return nil, fmt.Errorf("review %s: %w", id, err)
	}
	return &review, nil
}

func (r *reviewRepo) GetReviewByUserAndEvent(userID, eventID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListReviewsByEvent(eventID uuid.UUID, offset, limit int, rating *int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := func() *gorm.DB {
		q := r.db.Model(&models.Review{}).Where("event_id = ?", eventID)
		if rating != nil {
			q = q.Where("rating = ?", *rating)
		}
		return q
	}

	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	if err := query().
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *reviewRepo) ListReviewsByUser(userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepo) ListRatingsByEvent(eventID uuid.UUID) ([]int, error) {
	var ratings []int
	if err := r.db.Model(&models.Review{}).
		Where("event_id = ?", eventID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	return ratings, nil
}

func (r *reviewRepo) UpdateReview(review *models.Review) error {
	return r.db.Omit(clause.Associations).Save(review).Error
}

func (r *reviewRepo) DeleteReview(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *reviewRepo) DeleteReviewsByEvent(eventID uuid.UUID) error {
	return r.db.Where("event_id = ?", eventID).Delete(&models.Review{}).Error
}
